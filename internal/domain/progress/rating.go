package progress

import "time"

// Rating is a student's difficulty label for a content item.
type Rating string

const (
	RatingOK        Rating = "ok"
	RatingNormal    Rating = "normal"
	RatingReallyBad Rating = "really_bad"
	RatingViewed    Rating = "viewed"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingOK, RatingNormal, RatingReallyBad, RatingViewed:
		return true
	}
	return false
}

type ContentRating struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	StudentID    string    `gorm:"column:student_id;not null;uniqueIndex:idx_rating_student_content" json:"student_id"`
	ContentID    string    `gorm:"column:content_id;not null;uniqueIndex:idx_rating_student_content;index" json:"content_id"`
	Rating       Rating    `gorm:"column:rating;not null" json:"rating"`
	PersonalNote *string   `gorm:"column:personal_note" json:"personal_note"`
	ViewCount    int       `gorm:"column:view_count;not null;default:1" json:"view_count"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentRating) TableName() string { return "content_ratings" }

// RatingStats counts ratings of one content item: ok is easy, really_bad is hard.
type RatingStats struct {
	Easy   int64 `json:"easy"`
	Normal int64 `json:"normal"`
	Hard   int64 `json:"hard"`
}

// PersonalContent is a rated content row enriched for the personal notes panel.
type PersonalContent struct {
	ID               string    `json:"id"`
	ContentID        string    `json:"contentId"`
	Title            string    `json:"title"`
	Topic            string    `json:"topic"`
	PersonalNote     *string   `json:"personal_note"`
	DifficultyRating Rating    `json:"difficulty_rating"`
	UpdatedAt        time.Time `json:"updated_at"`
}
