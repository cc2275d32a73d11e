package deck

import "fmt"

// DefaultCharacterID 未指定角色时使用的占卜师
const DefaultCharacterID = "madame_luna"

// Character 一位占卜师角色
type Character struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Style    string `json:"style"`
	Greeting string `json:"greeting"`
}

// Characters 全部占卜师角色，展示顺序固定
var Characters = []Character{
	{
		ID:       "madame_luna",
		Name:     "Madame Luna",
		Style:    "warm, nurturing, and deeply intuitive",
		Greeting: "Welcome, dear one. The moon has been whispering your name...",
	},
	{
		ID:       "shadow",
		Name:     "Shadow",
		Style:    "brutally honest and direct",
		Greeting: "No pleasantries. You came for truth. Let's see what you're hiding from.",
	},
	{
		ID:       "elder_weiss",
		Name:     "Elder Weiss",
		Style:    "wise, measured, and scholarly",
		Greeting: "Ah, another soul seeking the ancient wisdom. The scrolls foretold your coming...",
	},
	{
		ID:       "nova",
		Name:     "Nova",
		Style:    "analytical, cosmic, and futuristic",
		Greeting: "Greetings, traveler. Your energy signature registered across the quantum field...",
	},
}

// CharacterByID 按 ID 查找角色，未知 ID 返回默认角色
func CharacterByID(id string) Character {
	for _, c := range Characters {
		if c.ID == id {
			return c
		}
	}
	return Characters[0]
}

// IsKnownCharacter 判断角色 ID 是否存在
func IsKnownCharacter(id string) bool {
	for _, c := range Characters {
		if c.ID == id {
			return true
		}
	}
	return false
}

// FallbackReading 生成角色口吻的离线解读，oracle 不可用时使用。
// 同样的输入恒产生同样的文本。
func FallbackReading(characterID, cardName string, upright bool) string {
	meaning := MeaningOf(cardName, upright)
	position := "upright"
	if !upright {
		position = "reversed"
	}

	switch characterID {
	case "shadow":
		return fmt.Sprintf("The %s shows itself %s. Face it: %s. No more hiding from the truth.", cardName, position, meaning)
	case "elder_weiss":
		return fmt.Sprintf("Ah, the %s reveals itself %s. Ancient wisdom speaks of %s. Reflect deeply on this, seeker.", cardName, position, meaning)
	case "nova":
		return fmt.Sprintf("Analysis complete. The %s (%s) indicates %s. Your energy pattern aligns with this cosmic data.", cardName, position, meaning)
	default:
		return fmt.Sprintf("Dear one, the %s appears %s in answer to your question. The cards whisper of %s. Trust in the cosmic flow, beloved seeker.", cardName, position, meaning)
	}
}
