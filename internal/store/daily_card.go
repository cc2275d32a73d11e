package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MysticTarot/internal/model"
	"MysticTarot/storage/database"
)

// DailyCardStore 每日卡牌的持久层，daily_cards 表是跨设备的权威记录
type DailyCardStore struct{}

func NewDailyCardStore() *DailyCardStore {
	return &DailyCardStore{}
}

// Get 查询某档案在某个神秘日的卡牌记录，未找到返回 (nil, nil)
func (s *DailyCardStore) Get(ctx context.Context, profileID, mysticDate string) (*model.DailyCard, error) {
	db := database.DB().WithContext(ctx)

	var card model.DailyCard
	err := db.
		Where("profile_id = ? AND mystic_date = ?", profileID, mysticDate).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query daily card: %w", err)
	}

	return &card, nil
}

// PutIfAbsent 写入卡牌记录，(profile_id, mystic_date) 冲突时保留先写入的行。
// 返回最终生效的行，won 表示本次写入是否成为赢家。
func (s *DailyCardStore) PutIfAbsent(ctx context.Context, card *model.DailyCard) (*model.DailyCard, bool, error) {
	db := database.DB().WithContext(ctx)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "mystic_date"}},
		DoNothing: true,
	}).Create(card)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to insert daily card: %w", result.Error)
	}

	// RowsAffected == 0 说明有并发写入抢先落库，回读赢家
	if result.RowsAffected == 0 {
		winner, err := s.Get(ctx, card.ProfileID, card.MysticDate)
		if err != nil {
			return nil, false, err
		}
		if winner == nil {
			return nil, false, fmt.Errorf("daily card conflict but winner row not found: profile=%s date=%s",
				card.ProfileID, card.MysticDate)
		}
		return winner, false, nil
	}

	return card, true, nil
}

// Delete 删除某档案某神秘日的卡牌记录，仅用于开发环境的强制重抽
func (s *DailyCardStore) Delete(ctx context.Context, profileID, mysticDate string) error {
	db := database.DB().WithContext(ctx)

	err := db.
		Where("profile_id = ? AND mystic_date = ?", profileID, mysticDate).
		Delete(&model.DailyCard{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete daily card: %w", err)
	}

	return nil
}

// ListRecent 按神秘日倒序返回某档案最近的卡牌记录
func (s *DailyCardStore) ListRecent(ctx context.Context, profileID string, limit int) ([]*model.DailyCard, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	db := database.DB().WithContext(ctx)

	var cards []*model.DailyCard
	err := db.
		Where("profile_id = ?", profileID).
		Order("mystic_date DESC").
		Limit(limit).
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list daily cards: %w", err)
	}

	return cards, nil
}
