package dto

import "time"

// DailyCardResponse 每日卡牌响应
type DailyCardResponse struct {
	MysticDate     string    `json:"mystic_date"`
	CardName       string    `json:"card_name"`
	AssetName      string    `json:"asset_name"`
	Upright        bool      `json:"upright"`
	ImageRef       string    `json:"image_ref,omitempty"`
	Interpretation string    `json:"interpretation"`
	Summary        string    `json:"summary"`
	CharacterID    string    `json:"character_id"`
	Source         string    `json:"source"`
	IsFirstReveal  bool      `json:"is_first_reveal"`
	RevealedAt     time.Time `json:"revealed_at"`
}

// DailyCardStatusResponse 当前神秘日的卡牌状态（未抽卡时 Card 为空）
type DailyCardStatusResponse struct {
	MysticDate string             `json:"mystic_date"`
	Revealed   bool               `json:"revealed"`
	RevealSeen bool               `json:"reveal_seen"`
	Card       *DailyCardResponse `json:"card,omitempty"`
}

// DrawRequest 抽卡请求
type DrawRequest struct {
	Question    string `json:"question"`
	CharacterID string `json:"character_id"`
}

// MysticDayResponse 神秘日信息
type MysticDayResponse struct {
	Date           string    `json:"date"`
	DayStart       time.Time `json:"day_start"`
	NextReset      time.Time `json:"next_reset"`
	SecondsToReset int64     `json:"seconds_to_reset"`
}

// CardHistoryItem 历史记录条目
type CardHistoryItem struct {
	MysticDate string    `json:"mystic_date"`
	CardName   string    `json:"card_name"`
	AssetName  string    `json:"asset_name"`
	Upright    bool      `json:"upright"`
	Summary    string    `json:"summary"`
	RevealedAt time.Time `json:"revealed_at"`
}
