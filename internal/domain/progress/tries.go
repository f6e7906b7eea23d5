package progress

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// QuizResultCorrect is the quiz_result marker of a correct answer.
const QuizResultCorrect = "✅"

type StudentTry struct {
	ID           string     `gorm:"column:id;primaryKey" json:"id"`
	AnswerChoice string     `gorm:"column:answer_choice" json:"answer_choice"`
	CurrentIndex *int       `gorm:"column:currentindex" json:"currentindex"`
	HocsinhID    string     `gorm:"column:hocsinh_id;index" json:"hocsinh_id"`
	QuestionID   string     `gorm:"column:question_id;index" json:"question_id"`
	QuizResult   string     `gorm:"column:quiz_result" json:"quiz_result"`
	Score        *int       `gorm:"column:score" json:"score"`
	ShowContent  string     `gorm:"column:showcontent" json:"showcontent"`
	TimeStart    *time.Time `gorm:"column:time_start;index" json:"time_start"`
	TimeEnd      *time.Time `gorm:"column:time_end" json:"time_end"`
}

func (StudentTry) TableName() string { return "student_try" }

func (t StudentTry) Correct() bool {
	return strings.TrimSpace(t.QuizResult) == QuizResultCorrect
}

// StudentTryPatch carries the mutable columns of a quiz attempt.
type StudentTryPatch struct {
	AnswerChoice *string    `json:"answer_choice"`
	CurrentIndex *int       `json:"currentindex"`
	QuizResult   *string    `json:"quiz_result"`
	Score        *int       `json:"score"`
	ShowContent  *string    `json:"showcontent"`
	TimeEnd      *time.Time `json:"time_end"`
}

func (p StudentTryPatch) Columns() map[string]interface{} {
	out := map[string]interface{}{}
	if p.AnswerChoice != nil {
		out["answer_choice"] = *p.AnswerChoice
	}
	if p.CurrentIndex != nil {
		out["currentindex"] = *p.CurrentIndex
	}
	if p.QuizResult != nil {
		out["quiz_result"] = *p.QuizResult
	}
	if p.Score != nil {
		out["score"] = *p.Score
	}
	if p.ShowContent != nil {
		out["showcontent"] = *p.ShowContent
	}
	if p.TimeEnd != nil {
		out["time_end"] = *p.TimeEnd
	}
	return out
}

// StudentTryContent tracks which questions a student answered for a content item.
// QuestionIDs is the comma separated list accumulated by the daily tracking job.
type StudentTryContent struct {
	ID           string     `gorm:"column:id;primaryKey" json:"id"`
	ContentID    string     `gorm:"column:contentid;index:idx_try_content_student_content" json:"contentid"`
	HocsinhID    string     `gorm:"column:hocsinh_id;index:idx_try_content_student_content" json:"hocsinh_id"`
	StudentTryID string     `gorm:"column:student_try_id" json:"student_try_id"`
	TimeStart    *time.Time `gorm:"column:time_start" json:"time_start"`
	TimeEnd      *time.Time `gorm:"column:time_end" json:"time_end"`
	QuestionIDs  string     `gorm:"column:update" json:"update"`
}

func (StudentTryContent) TableName() string { return "student_try_content" }

// TriesLeaderboardEntry ranks students by total quiz attempts.
type TriesLeaderboardEntry struct {
	Rank           int     `json:"rank"`
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	TotalTries     int64   `json:"total_tries"`
	CorrectAnswers int64   `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

type MatchingAttempt struct {
	ID              string         `gorm:"column:id;primaryKey" json:"id"`
	StudentID       string         `gorm:"column:student_id;not null;index" json:"student_id"`
	MatchingID      string         `gorm:"column:matching_id;not null;index" json:"matching_id"`
	Answers         datatypes.JSON `gorm:"column:answers" json:"answers"`
	Score           *int           `gorm:"column:score" json:"score"`
	MaxScore        *int           `gorm:"column:max_score" json:"max_score"`
	IsCorrect       *bool          `gorm:"column:is_correct" json:"is_correct"`
	TimeStart       *time.Time     `gorm:"column:time_start" json:"time_start"`
	TimeEnd         *time.Time     `gorm:"column:time_end" json:"time_end"`
	DurationSeconds *int           `gorm:"column:duration_seconds" json:"duration_seconds"`
	AttemptNumber   int            `gorm:"column:attempt_number;not null;default:1" json:"attempt_number"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MatchingAttempt) TableName() string { return "matching_attempts" }

// AnsweredQuestion is a quiz attempt resolved to the content its question belongs to.
type AnsweredQuestion struct {
	StudentID  string
	QuestionID string
	ContentID  string
	TimeStart  time.Time
}

// MatchingAttemptPatch carries the columns a client may change after an
// attempt is created.
type MatchingAttemptPatch struct {
	Answers         datatypes.JSON `json:"answers"`
	Score           *int           `json:"score"`
	MaxScore        *int           `json:"max_score"`
	IsCorrect       *bool          `json:"is_correct"`
	TimeEnd         *time.Time     `json:"time_end"`
	DurationSeconds *int           `json:"duration_seconds"`
}

func (p MatchingAttemptPatch) Columns() map[string]interface{} {
	out := map[string]interface{}{}
	if len(p.Answers) > 0 {
		out["answers"] = p.Answers
	}
	if p.Score != nil {
		out["score"] = *p.Score
	}
	if p.MaxScore != nil {
		out["max_score"] = *p.MaxScore
	}
	if p.IsCorrect != nil {
		out["is_correct"] = *p.IsCorrect
	}
	if p.TimeEnd != nil {
		out["time_end"] = *p.TimeEnd
	}
	if p.DurationSeconds != nil {
		out["duration_seconds"] = *p.DurationSeconds
	}
	return out
}
