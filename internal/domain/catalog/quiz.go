package catalog

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// LevelOverview is the question level meaning "every level".
const LevelOverview = "Overview"

type Question struct {
	ID            string                      `gorm:"column:id;primaryKey" json:"id"`
	Topic         string                      `gorm:"column:topic" json:"topic"`
	RandomOrder   string                      `gorm:"column:randomorder" json:"randomorder"`
	QuestionLevel string                      `gorm:"column:questionlevel" json:"questionlevel"`
	ContentID     string                      `gorm:"column:contentid;index" json:"contentid"`
	QuestionType  string                      `gorm:"column:question_type" json:"question_type"`
	Text          string                      `gorm:"column:noi_dung" json:"noi_dung"`
	Video         string                      `gorm:"column:video" json:"video"`
	Picture       string                      `gorm:"column:picture" json:"picture"`
	Choices       datatypes.JSONSlice[string] `gorm:"column:choices" json:"choices"`
	CorrectChoice string                      `gorm:"column:correct_choice" json:"correct_choice"`
	WritingChoice string                      `gorm:"column:writing_choice" json:"writing_choice"`
	Time          string                      `gorm:"column:time" json:"time"`
	Explanation   string                      `gorm:"column:explanation" json:"explanation"`
	QuestionOrder string                      `gorm:"column:questionorder" json:"questionorder"`
	Answer        string                      `gorm:"column:answer" json:"answer"`
}

func (Question) TableName() string { return "question" }

// QuestionFilter narrows question listings. ContentID wins over TopicID.
type QuestionFilter struct {
	ContentID string
	TopicID   string
	Level     string
}

// NormalizedLevel returns the lower-cased level, or "" when every level matches.
func (f QuestionFilter) NormalizedLevel() string {
	lvl := strings.TrimSpace(f.Level)
	if lvl == "" || strings.EqualFold(lvl, LevelOverview) {
		return ""
	}
	return strings.ToLower(lvl)
}

// MaxMatchingPairs is the number of prompt/choice slots a matching activity holds.
const MaxMatchingPairs = 6

type Matching struct {
	ID          string                      `gorm:"column:id;primaryKey" json:"id"`
	Type        string                      `gorm:"column:type" json:"type"`
	Subject     string                      `gorm:"column:subject" json:"subject"`
	Topic       string                      `gorm:"column:topic" json:"topic"`
	Description string                      `gorm:"column:description" json:"description"`
	TopicID     string                      `gorm:"column:topicid;index" json:"topicid"`
	Prompts     datatypes.JSONSlice[string] `gorm:"column:prompts" json:"prompts"`
	Choices     datatypes.JSONSlice[string] `gorm:"column:choices" json:"choices"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Matching) TableName() string { return "matching" }

type MatchingPair struct {
	Prompt string `json:"prompt"`
	Choice string `json:"choice"`
}

// Pairs zips prompts and choices by position, skipping slots where either side is blank.
func (m Matching) Pairs() []MatchingPair {
	n := len(m.Prompts)
	if len(m.Choices) < n {
		n = len(m.Choices)
	}
	if n > MaxMatchingPairs {
		n = MaxMatchingPairs
	}
	out := make([]MatchingPair, 0, n)
	for i := 0; i < n; i++ {
		p := strings.TrimSpace(m.Prompts[i])
		c := strings.TrimSpace(m.Choices[i])
		if p == "" || c == "" {
			continue
		}
		out = append(out, MatchingPair{Prompt: p, Choice: c})
	}
	return out
}

// Grade counts answers (prompt to chosen choice) that match the activity's
// pairs. Comparison ignores case and surrounding space. total is the number
// of pairs.
func (m Matching) Grade(answers map[string]string) (correct, total int) {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	given := make(map[string]string, len(answers))
	for p, c := range answers {
		given[norm(p)] = norm(c)
	}
	pairs := m.Pairs()
	for _, pair := range pairs {
		if c, ok := given[norm(pair.Prompt)]; ok && c == norm(pair.Choice) {
			correct++
		}
	}
	return correct, len(pairs)
}
