package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MysticTarot/config"
	"MysticTarot/internal/model"
	"MysticTarot/internal/mysticday"
	"MysticTarot/pkg/logger"
	"MysticTarot/pkg/metrics"
	"MysticTarot/storage/redis"
)

const (
	dailyCardPrefix = "card:daily"

	// TTL 略长于保留窗口，SCAN 清理是主手段，TTL 只是兜底
	dailyCardTTL = 9 * 24 * time.Hour

	pruneScanCount = 200
)

// CachedDailyCard redis 中的卡牌镜像，字段与 daily_cards 表对齐
type CachedDailyCard struct {
	ID             int64  `json:"id"`
	ProfileID      string `json:"profile_id"`
	MysticDate     string `json:"mystic_date"`
	CardName       string `json:"card_name"`
	Upright        bool   `json:"upright"`
	ImageRef       string `json:"image_ref"`
	Interpretation string `json:"interpretation"`
	Summary        string `json:"summary"`
	CharacterID    string `json:"character_id"`
	Source         string `json:"source"`
	RevealedAt     int64  `json:"revealed_at"`
}

func fromModel(card *model.DailyCard) *CachedDailyCard {
	return &CachedDailyCard{
		ID:             card.ID,
		ProfileID:      card.ProfileID,
		MysticDate:     card.MysticDate,
		CardName:       card.CardName,
		Upright:        card.Upright,
		ImageRef:       card.ImageRef,
		Interpretation: card.Interpretation,
		Summary:        card.Summary,
		CharacterID:    card.CharacterID,
		Source:         string(card.Source),
		RevealedAt:     card.CreatedAt.Unix(),
	}
}

func (c *CachedDailyCard) ToModel() *model.DailyCard {
	return &model.DailyCard{
		ID:             c.ID,
		ProfileID:      c.ProfileID,
		MysticDate:     c.MysticDate,
		CardName:       c.CardName,
		Upright:        c.Upright,
		ImageRef:       c.ImageRef,
		Interpretation: c.Interpretation,
		Summary:        c.Summary,
		CharacterID:    c.CharacterID,
		Source:         model.CardSource(c.Source),
		CreatedAt:      time.Unix(c.RevealedAt, 0),
	}
}

// GetDailyCard 读取本地缓存镜像，未命中或异常都返回 nil（缓存只加速，不决定正确性）
func GetDailyCard(ctx context.Context, profileID, mysticDate string) *model.DailyCard {
	key := redis.Key(dailyCardPrefix, profileID, mysticDate)

	data, err := redis.Client().Get(ctx, key).Result()
	if err != nil {
		if err != goredis.Nil {
			logger.Logger.Warn("Failed to read daily card cache",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		metrics.RecordCacheMiss("daily_card")
		return nil
	}

	var cached CachedDailyCard
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		logger.Logger.Warn("Corrupt daily card cache entry, dropping",
			zap.String("key", key),
			zap.Error(err),
		)
		redis.Client().Del(ctx, key)
		metrics.RecordCacheMiss("daily_card")
		return nil
	}

	metrics.RecordCacheHit("daily_card")
	return cached.ToModel()
}

// SetDailyCard 写入本地缓存镜像，顺带清理过期条目。
// 缓存写失败只记日志，调用方不感知。
func SetDailyCard(ctx context.Context, card *model.DailyCard) {
	key := redis.Key(dailyCardPrefix, card.ProfileID, card.MysticDate)

	data, err := json.Marshal(fromModel(card))
	if err != nil {
		logger.Logger.Warn("Failed to marshal daily card for cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	if err := redis.Client().Set(ctx, key, data, dailyCardTTL).Err(); err != nil {
		logger.Logger.Warn("Failed to write daily card cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	PruneStaleDailyCards(ctx, time.Now())
}

// DeleteDailyCard 删除缓存镜像，用于强制重抽
func DeleteDailyCard(ctx context.Context, profileID, mysticDate string) {
	key := redis.Key(dailyCardPrefix, profileID, mysticDate)
	if err := redis.Client().Del(ctx, key).Err(); err != nil {
		logger.Logger.Warn("Failed to delete daily card cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// PruneStaleDailyCards 扫描缓存命名空间，删除超出保留窗口的条目。
// 格式异常的 key 跳过不删，避免误伤其它业务数据。
func PruneStaleDailyCards(ctx context.Context, now time.Time) {
	today := mysticday.Date(now)
	retention := config.Cfg.CardCacheRetentionDays

	pattern := redis.Key(dailyCardPrefix) + ":*"
	cli := redis.Client()

	var pruned int64
	var cursor uint64
	for {
		keys, next, err := cli.Scan(ctx, cursor, pattern, pruneScanCount).Result()
		if err != nil {
			logger.Logger.Warn("Failed to scan daily card cache for pruning",
				zap.String("pattern", pattern),
				zap.Error(err),
			)
			return
		}

		for _, key := range keys {
			if !staleKey(key, today, retention) {
				continue
			}
			if err := cli.Del(ctx, key).Err(); err != nil {
				logger.Logger.Warn("Failed to prune stale daily card cache entry",
					zap.String("key", key),
					zap.Error(err),
				)
				continue
			}
			pruned++
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if pruned > 0 {
		metrics.RecordCachePruned(pruned)
		logger.Logger.Info("Pruned stale daily card cache entries",
			zap.Int64("count", pruned),
			zap.String("today", today),
		)
	}
}

// staleKey 判断缓存 key 的末段日期是否早于保留窗口。
// key 形如 <prefix>:card:daily:<profile>:<date>，末段解析失败一律视为不过期。
func staleKey(key, today string, retentionDays int) bool {
	idx := strings.LastIndex(key, ":")
	if idx < 0 || idx == len(key)-1 {
		return false
	}

	entryDate, err := time.Parse(mysticday.DateLayout, key[idx+1:])
	if err != nil {
		return false
	}

	todayDate, err := time.Parse(mysticday.DateLayout, today)
	if err != nil {
		return false
	}

	cutoff := todayDate.AddDate(0, 0, -retentionDays)
	return entryDate.Before(cutoff)
}
