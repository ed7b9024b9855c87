package reflection

import "strings"

// keywordRule maps a trigger keyword to the glyph it assigns. Rules are
// evaluated in declared order; the first keyword found in the preview wins.
type keywordRule struct {
	keyword string
	glyph   string
}

var emotionRules = []keywordRule{
	{"love", "❤️"},
	{"hate", "💢"},
	{"sad", "😢"},
	{"cry", "😭"},
	{"angry", "😠"},
	{"happy", "😊"},
	{"fear", "😨"},
	{"laugh", "😂"},
}

var moodRules = []keywordRule{
	{"truth", "🧠"},
	{"error", "⚠️"},
	{"purpose", "🌱"},
}

// Annotate sets Emotion and Mood from the lowercased preview. At most one
// rule per category applies; no match leaves the field empty.
func (r *Reflection) Annotate() {
	preview := strings.ToLower(r.Preview)

	for _, rule := range emotionRules {
		if strings.Contains(preview, rule.keyword) {
			r.Emotion = rule.glyph
			break
		}
	}
	for _, rule := range moodRules {
		if strings.Contains(preview, rule.keyword) {
			r.Mood = rule.glyph
			break
		}
	}
}
