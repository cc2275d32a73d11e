package deck

// Meaning 卡牌在正位与逆位下的含义
type Meaning struct {
	Upright  string
	Reversed string
	Keywords []string
}

// meanings 大阿卡纳牌意表，角色回退解读从这里取词
var meanings = map[string]Meaning{
	"The Fool": {
		Upright:  "New beginnings, innocence, spontaneity, free spirit, taking a leap of faith",
		Reversed: "Recklessness, naivety, foolishness, fear of change, being taken advantage of",
		Keywords: []string{"beginning", "adventure", "potential", "innocence"},
	},
	"The Magician": {
		Upright:  "Manifestation, resourcefulness, power, inspired action, skill",
		Reversed: "Manipulation, poor planning, untapped talents, deception",
		Keywords: []string{"willpower", "creation", "action", "mastery"},
	},
	"The High Priestess": {
		Upright:  "Intuition, sacred knowledge, divine feminine, the subconscious mind",
		Reversed: "Secrets, disconnection from intuition, withdrawal, silence",
		Keywords: []string{"intuition", "mystery", "inner voice", "wisdom"},
	},
	"The Empress": {
		Upright:  "Femininity, beauty, nature, nurturing, abundance, fertility",
		Reversed: "Creative block, dependence, emptiness, smothering",
		Keywords: []string{"abundance", "nurturing", "creativity", "nature"},
	},
	"The Emperor": {
		Upright:  "Authority, structure, control, fatherhood, stability, leadership",
		Reversed: "Tyranny, rigidity, coldness, domination, lack of discipline",
		Keywords: []string{"authority", "structure", "control", "father"},
	},
	"The Hierophant": {
		Upright:  "Spiritual wisdom, religious beliefs, conformity, tradition, institutions",
		Reversed: "Personal beliefs, freedom, challenging the status quo, unconventional",
		Keywords: []string{"tradition", "guidance", "conformity", "beliefs"},
	},
	"The Lovers": {
		Upright:  "Love, harmony, relationships, values alignment, choices, union",
		Reversed: "Self-love, disharmony, imbalance, misalignment of values",
		Keywords: []string{"love", "choice", "harmony", "relationships"},
	},
	"The Chariot": {
		Upright:  "Control, willpower, success, action, determination, triumph",
		Reversed: "Self-discipline, opposition, lack of direction, aggression",
		Keywords: []string{"victory", "willpower", "determination", "control"},
	},
	"Strength": {
		Upright:  "Strength, courage, patience, control, compassion, inner power",
		Reversed: "Self-doubt, weakness, low energy, insecurity, lack of confidence",
		Keywords: []string{"courage", "patience", "compassion", "inner strength"},
	},
	"The Hermit": {
		Upright:  "Soul-searching, introspection, being alone, inner guidance, solitude",
		Reversed: "Isolation, loneliness, withdrawal, lost your way",
		Keywords: []string{"introspection", "solitude", "guidance", "wisdom"},
	},
	"Wheel of Fortune": {
		Upright:  "Good luck, karma, life cycles, destiny, turning point",
		Reversed: "Bad luck, negative external forces, out of control, resistance to change",
		Keywords: []string{"fate", "cycles", "change", "destiny"},
	},
	"Justice": {
		Upright:  "Justice, fairness, truth, cause and effect, law, balance",
		Reversed: "Unfairness, lack of accountability, dishonesty, avoiding responsibility",
		Keywords: []string{"truth", "fairness", "karma", "balance"},
	},
	"The Hanged Man": {
		Upright:  "Pause, surrender, letting go, new perspectives, sacrifice",
		Reversed: "Delays, resistance, stalling, indecision, avoiding sacrifice",
		Keywords: []string{"surrender", "perspective", "pause", "sacrifice"},
	},
	"Death": {
		Upright:  "Endings, change, transformation, transition, letting go",
		Reversed: "Resistance to change, personal transformation, inner purging",
		Keywords: []string{"transformation", "endings", "change", "transition"},
	},
	"Temperance": {
		Upright:  "Balance, moderation, patience, purpose, meaning, harmony",
		Reversed: "Imbalance, excess, self-healing, realignment, extremes",
		Keywords: []string{"balance", "moderation", "patience", "harmony"},
	},
	"The Devil": {
		Upright:  "Shadow self, attachment, addiction, restriction, sexuality, materialism",
		Reversed: "Releasing limiting beliefs, exploring dark thoughts, detachment, freedom",
		Keywords: []string{"bondage", "materialism", "shadow", "addiction"},
	},
	"The Tower": {
		Upright:  "Sudden change, upheaval, chaos, revelation, awakening, destruction",
		Reversed: "Personal transformation, fear of change, avoiding disaster, resistance",
		Keywords: []string{"upheaval", "awakening", "revelation", "chaos"},
	},
	"The Star": {
		Upright:  "Hope, faith, purpose, renewal, spirituality, serenity",
		Reversed: "Lack of faith, despair, self-trust, disconnection, hopelessness",
		Keywords: []string{"hope", "inspiration", "renewal", "serenity"},
	},
	"The Moon": {
		Upright:  "Illusion, fear, anxiety, subconscious, intuition, dreams",
		Reversed: "Release of fear, repressed emotion, inner confusion, clarity",
		Keywords: []string{"illusion", "intuition", "dreams", "subconscious"},
	},
	"The Sun": {
		Upright:  "Positivity, fun, warmth, success, vitality, joy, radiance",
		Reversed: "Inner child, feeling down, overly optimistic, sadness",
		Keywords: []string{"joy", "success", "vitality", "optimism"},
	},
	"Judgement": {
		Upright:  "Judgement, rebirth, inner calling, absolution, awakening",
		Reversed: "Self-doubt, inner critic, ignoring the call, fear of judgment",
		Keywords: []string{"rebirth", "calling", "absolution", "awakening"},
	},
	"The World": {
		Upright:  "Completion, integration, accomplishment, travel, fulfillment",
		Reversed: "Seeking personal closure, short-cuts, delays, incompleteness",
		Keywords: []string{"completion", "fulfillment", "wholeness", "achievement"},
	},
}

// MeaningOf 返回卡牌牌意；未知卡牌返回通用描述，不报错
func MeaningOf(cardName string, upright bool) string {
	m, ok := meanings[cardName]
	if !ok {
		if upright {
			return "positive transformation and new opportunities"
		}
		return "internal challenges and blocked energy"
	}

	if upright {
		return m.Upright
	}
	return m.Reversed
}

// KeywordsOf 返回卡牌关键词；未知卡牌返回通用关键词
func KeywordsOf(cardName string) []string {
	m, ok := meanings[cardName]
	if !ok {
		return []string{"transformation", "insight"}
	}
	return m.Keywords
}
