package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, id, fullName, merakiEmail string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          id,
		FullName:    fullName,
		MerakiEmail: merakiEmail,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, id, name string, parentID *string) *types.Topic {
	tb.Helper()
	t := &types.Topic{ID: id, Topic: name, ParentID: parentID, ShowStudent: true}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, c types.Content) *types.Content {
	tb.Helper()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := tx.WithContext(ctx).Create(&c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return &c
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, id, contentID, level string) *types.Question {
	tb.Helper()
	q := &types.Question{
		ID:            id,
		ContentID:     contentID,
		QuestionLevel: level,
		Text:          "question " + id,
		Choices:       []string{"a", "b", "c", "d"},
		CorrectChoice: "a",
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedStudentTry(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, questionID, result string, at time.Time) *types.StudentTry {
	tb.Helper()
	start := at.UTC()
	st := &types.StudentTry{
		ID:         uuid.NewString(),
		HocsinhID:  studentID,
		QuestionID: questionID,
		QuizResult: result,
		TimeStart:  &start,
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed student try: %v", err)
	}
	return st
}

func SeedRating(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, contentID string, rating types.Rating) *types.ContentRating {
	tb.Helper()
	r := &types.ContentRating{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ContentID: contentID,
		Rating:    rating,
		ViewCount: 1,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rating: %v", err)
	}
	return r
}
