package catalog

import "strings"

type Topic struct {
	ID               string  `gorm:"column:id;primaryKey" json:"id"`
	Topic            string  `gorm:"column:topic;index" json:"topic"`
	ShortSummary     string  `gorm:"column:short_summary" json:"short_summary"`
	ChallengeSubject string  `gorm:"column:challengesubject" json:"challengesubject"`
	Image            string  `gorm:"column:image" json:"image"`
	ParentID         *string `gorm:"column:parentid;index" json:"parentid"`
	ShowStudent      bool    `gorm:"column:showstudent" json:"showstudent"`
}

func (Topic) TableName() string { return "topic" }

// IsRoot reports whether the topic has no parent.
func (t Topic) IsRoot() bool {
	return t.ParentID == nil || strings.TrimSpace(*t.ParentID) == ""
}

// Parent returns the parent id, or "" for root topics.
func (t Topic) Parent() string {
	if t.IsRoot() {
		return ""
	}
	return strings.TrimSpace(*t.ParentID)
}

// TopicPatch carries the editable topic columns; nil fields are left alone.
type TopicPatch struct {
	Topic            *string `json:"topic"`
	ShortSummary     *string `json:"short_summary"`
	ChallengeSubject *string `json:"challengesubject"`
	Image            *string `json:"image"`
	ParentID         *string `json:"parentid"`
	ShowStudent      *bool   `json:"showstudent"`
}

func (p TopicPatch) Columns() map[string]interface{} {
	out := map[string]interface{}{}
	if p.Topic != nil {
		out["topic"] = *p.Topic
	}
	if p.ShortSummary != nil {
		out["short_summary"] = *p.ShortSummary
	}
	if p.ChallengeSubject != nil {
		out["challengesubject"] = *p.ChallengeSubject
	}
	if p.Image != nil {
		out["image"] = *p.Image
	}
	if p.ParentID != nil {
		if v := strings.TrimSpace(*p.ParentID); v == "" {
			out["parentid"] = nil
		} else {
			out["parentid"] = v
		}
	}
	if p.ShowStudent != nil {
		out["showstudent"] = *p.ShowStudent
	}
	return out
}
