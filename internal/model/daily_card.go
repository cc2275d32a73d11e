package model

import "time"

// CardSource 卡牌记录的来源
type CardSource string

const (
	CardSourceOracle   CardSource = "oracle"   // 上游解读服务生成
	CardSourceFallback CardSource = "fallback" // 本地确定性回退牌组
)

// DailyCard 每日卡牌记录，(profile_id, mystic_date) 唯一。
// 权威存储中的记录一经写入不再修改，第一个写入者获胜。
type DailyCard struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	ProfileID      string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_daily_cards_profile_date" json:"profile_id"`
	MysticDate     string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_cards_profile_date" json:"mystic_date"`
	CardName       string     `gorm:"type:varchar(64);not null" json:"card_name"`
	Upright        bool       `gorm:"not null;default:true" json:"upright"`
	ImageRef       string     `gorm:"type:varchar(255)" json:"image_ref,omitempty"`
	Interpretation string     `gorm:"type:text" json:"interpretation"`
	Summary        string     `gorm:"type:varchar(255)" json:"summary"`
	CharacterID    string     `gorm:"type:varchar(32);not null;default:'madame_luna'" json:"character_id"`
	Source         CardSource `gorm:"type:varchar(16);not null;default:'oracle'" json:"source"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"` // 服务端揭示时间
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

// TableName 指定表名
func (DailyCard) TableName() string {
	return "daily_cards"
}
