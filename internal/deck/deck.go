package deck

import (
	"strings"
	"time"
)

// MajorArcana 大阿卡纳 22 张牌的固定顺序，回退公式按此索引
var MajorArcana = []string{
	"The Fool",
	"The Magician",
	"The High Priestess",
	"The Empress",
	"The Emperor",
	"The Hierophant",
	"The Lovers",
	"The Chariot",
	"Strength",
	"The Hermit",
	"Wheel of Fortune",
	"Justice",
	"The Hanged Man",
	"Death",
	"Temperance",
	"The Devil",
	"The Tower",
	"The Star",
	"The Moon",
	"The Sun",
	"Judgement",
	"The World",
}

// fallbackMessages 与 MajorArcana 平行的回退解读，索引一一对应
var fallbackMessages = []string{
	"A new path opens beneath your feet. Step forward without fear.",
	"Everything you need is already in your hands. Act on it today.",
	"Listen to the quiet voice within; it knows more than it tells.",
	"Abundance grows around you. Nurture what you have planted.",
	"Structure will serve you today. Build before you dream further.",
	"Old wisdom holds the answer you seek. Honor what came before.",
	"A choice of the heart approaches. Let your values decide.",
	"Hold the reins firmly; your determination carries you to victory.",
	"Gentle strength outlasts force. Be patient with what resists.",
	"Solitude today is not loneliness; it is where your answer waits.",
	"The wheel turns in your favor. Welcome what changes.",
	"What is owed returns to you. Weigh your choices honestly.",
	"Pause and look again. The view changes when you stop struggling.",
	"Something must end for something to begin. Release it.",
	"Blend the opposites in your life; the middle path heals.",
	"Notice what binds you today. The chain is looser than it looks.",
	"What falls away was never solid. Build anew from what remains.",
	"Hope returns like starlight. Follow it through the dark.",
	"Not all is as it appears tonight. Trust your dreams, not your fears.",
	"Joy is your birthright today. Let warmth find you.",
	"A calling stirs. Rise and answer what you have long postponed.",
	"A cycle completes. Celebrate how far you have come.",
}

// Card 一张抽出的每日卡牌
type Card struct {
	Name    string
	Upright bool
	Message string
}

// Fallback 按照固定公式从本地牌组确定性地选一张卡。
// oracle 服务不可用时使用，同一个时刻多次调用结果一致：
// 卡牌由 (日 + 月) mod 22 决定，正逆位由 (小时 mod 3) != 0 决定。
func Fallback(t time.Time) Card {
	idx := (t.Day() + int(t.Month())) % len(MajorArcana)

	return Card{
		Name:    MajorArcana[idx],
		Upright: t.Hour()%3 != 0,
		Message: fallbackMessages[idx],
	}
}

// AssetName 返回卡牌的美术资源名：小写 + 下划线。
// 美术资源按此规则命名，如 "The High Priestess" -> "the_high_priestess"
func AssetName(cardName string) string {
	return strings.ReplaceAll(strings.ToLower(cardName), " ", "_")
}

// IsKnown 判断卡牌名是否属于大阿卡纳牌组
func IsKnown(cardName string) bool {
	_, ok := meanings[cardName]
	return ok
}
