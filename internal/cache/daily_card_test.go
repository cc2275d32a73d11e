package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleKey(t *testing.T) {
	today := "2024-06-15"

	tests := []struct {
		name  string
		key   string
		stale bool
	}{
		{"today", "mystic:card:daily:p1:2024-06-15", false},
		{"yesterday", "mystic:card:daily:p1:2024-06-14", false},
		{"exactly seven days old", "mystic:card:daily:p1:2024-06-08", false},
		{"eight days old", "mystic:card:daily:p1:2024-06-07", true},
		{"one month old", "mystic:card:daily:p1:2024-05-15", true},
		{"future date", "mystic:card:daily:p1:2024-07-01", false},
		{"malformed date", "mystic:card:daily:p1:not-a-date", false},
		{"no separator", "garbage", false},
		{"trailing colon", "mystic:card:daily:p1:", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, staleKey(tt.key, today, 7))
		})
	}
}

func TestStaleKeyRetentionWindow(t *testing.T) {
	// 保留窗口可配，3 天窗口下 4 天前的条目过期
	assert.True(t, staleKey("mystic:card:daily:p1:2024-06-11", "2024-06-15", 3))
	assert.False(t, staleKey("mystic:card:daily:p1:2024-06-12", "2024-06-15", 3))
}

func TestCachedDailyCardRoundTrip(t *testing.T) {
	cached := &CachedDailyCard{
		ID:          42,
		ProfileID:   "p1",
		MysticDate:  "2024-06-15",
		CardName:    "The Moon",
		Upright:     false,
		Source:      "fallback",
		CharacterID: "madame_luna",
		RevealedAt:  1718445600,
	}

	card := cached.ToModel()
	assert.Equal(t, "The Moon", card.CardName)
	assert.False(t, card.Upright)

	back := fromModel(card)
	assert.Equal(t, cached, back)
}
