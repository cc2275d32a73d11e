package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"MysticTarot/pkg/logger"
	"MysticTarot/storage/redis"
)

const (
	revealSeenPrefix = "card:seen"

	// 翻牌动画标记只对当个神秘日有意义，48 小时足够覆盖时区边界
	revealSeenTTL = 48 * time.Hour
)

// MarkRevealSeen 标记某神秘日的翻牌动画已播放，重复调用无副作用
func MarkRevealSeen(ctx context.Context, profileID, mysticDate string) {
	key := redis.Key(revealSeenPrefix, profileID, mysticDate)
	if err := redis.Client().Set(ctx, key, "1", revealSeenTTL).Err(); err != nil {
		logger.Logger.Warn("Failed to mark reveal seen",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// IsRevealSeen 查询翻牌动画是否已播放，redis 异常时按未播放处理
func IsRevealSeen(ctx context.Context, profileID, mysticDate string) bool {
	key := redis.Key(revealSeenPrefix, profileID, mysticDate)
	n, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		logger.Logger.Warn("Failed to check reveal seen",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return n > 0
}

// ClearRevealSeen 清除翻牌标记，强制重抽时使用
func ClearRevealSeen(ctx context.Context, profileID, mysticDate string) {
	key := redis.Key(revealSeenPrefix, profileID, mysticDate)
	if err := redis.Client().Del(ctx, key).Err(); err != nil {
		logger.Logger.Warn("Failed to clear reveal seen",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
