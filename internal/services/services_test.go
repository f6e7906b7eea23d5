package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/repos"
	"github.com/yungbote/meraki-backend/internal/data/repos/testutil"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/modules/hierarchy"
	"github.com/yungbote/meraki-backend/internal/pkg/ctxutil"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

// fixture wires every service onto one rolled-back transaction.
type fixture struct {
	ctx   context.Context
	tx    *gorm.DB
	clock *fakeClock

	catalog   CatalogService
	users     UserService
	auth      AuthService
	progress  ProgressService
	ratings   RatingService
	tries     StudentTryService
	matching  MatchingService
	hierarchy HierarchyService
	tracking  TrackingService
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_, tx := testutil.DBC(t)
	log := testutil.Logger(t)
	clock := &fakeClock{t: time.Date(2026, 4, 14, 9, 30, 0, 0, time.UTC)}

	userRepo := repos.NewUserRepo(tx, log)
	topicRepo := repos.NewTopicRepo(tx, log)
	contentRepo := repos.NewContentRepo(tx, log)
	ratingRepo := repos.NewContentRatingRepo(tx, log)
	tryRepo := repos.NewStudentTryRepo(tx, log)
	tryContentRepo := repos.NewStudentTryContentRepo(tx, log)
	matchingRepo := repos.NewMatchingRepo(tx, log)

	f := &fixture{ctx: context.Background(), tx: tx, clock: clock}
	f.catalog = NewCatalogService(tx, log, topicRepo, contentRepo,
		repos.NewImageRepo(tx, log), repos.NewVideoRepo(tx, log),
		repos.NewQuestionRepo(tx, log), matchingRepo)
	f.users = NewUserService(tx, log, userRepo)
	f.auth = NewAuthService(tx, log, userRepo, "test-secret", time.Hour, []string{"gv0002"})
	f.auth.(*authService).now = clock.Now
	f.progress = NewProgressService(tx, log,
		repos.NewStudentStreakRepo(tx, log), repos.NewDailyActivityRepo(tx, log), tryRepo, clock.Now)
	f.ratings = NewRatingService(tx, log, ratingRepo, tryContentRepo, f.progress)
	f.ratings.(*ratingService).now = clock.Now
	f.tries = NewStudentTryService(tx, log, tryRepo, tryContentRepo)
	f.tries.(*studentTryService).now = clock.Now
	f.matching = NewMatchingService(tx, log, matchingRepo, repos.NewMatchingAttemptRepo(tx, log))
	f.hierarchy = NewHierarchyService(tx, log, topicRepo, contentRepo, ratingRepo, hierarchy.Options{})
	f.tracking = NewTrackingService(tx, log, tryRepo, tryContentRepo, clock.Now)
	return f
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if got, _ := apierr.Classify(err); got != status {
		t.Fatalf("status=%d want=%d (err=%v)", got, status, err)
	}
}

func strPtr(s string) *string { return &s }

func TestCatalogService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedTopic(t, f.ctx, f.tx, "T1", "Math", nil)
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C1", TopicID: "T1", Title: "Fractions", ContentGroup: "G1"})
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C2", TopicID: "T1", Title: "Decimals"})

	_, err := f.catalog.GetTopic(f.ctx, "missing")
	wantStatus(t, err, 404)

	_, err = f.catalog.CreateTopic(f.ctx, &types.Topic{ID: "T2", Topic: "  "})
	wantStatus(t, err, 400)

	created, err := f.catalog.CreateTopic(f.ctx, &types.Topic{ID: " T2 ", Topic: "Science"})
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	if created.ID != "T2" {
		t.Fatalf("id not trimmed: %q", created.ID)
	}

	updated, err := f.catalog.UpdateTopic(f.ctx, "T2", types.TopicPatch{ShortSummary: strPtr("Labs"), ParentID: strPtr("T1")})
	if err != nil {
		t.Fatalf("UpdateTopic: %v", err)
	}
	if updated.ShortSummary != "Labs" || updated.Parent() != "T1" {
		t.Fatalf("unexpected topic: %+v", updated)
	}
	_, err = f.catalog.UpdateTopic(f.ctx, "T2", types.TopicPatch{ParentID: strPtr("T2")})
	wantStatus(t, err, 400)
	_, err = f.catalog.UpdateTopic(f.ctx, "nope", types.TopicPatch{ShortSummary: strPtr("x")})
	wantStatus(t, err, 404)

	split, err := f.catalog.SplitTopicContent(f.ctx, "T1")
	if err != nil {
		t.Fatalf("SplitTopicContent: %v", err)
	}
	if len(split.Groups) != 1 || split.Groups[0].GroupName != "G1" || len(split.UngroupedContent) != 1 {
		t.Fatalf("unexpected split: %+v", split)
	}

	c, err := f.catalog.CreateContent(f.ctx, &types.Content{TopicID: "T1", Title: "Percent"})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if c.ID == "" {
		t.Fatal("content id not assigned")
	}

	_, err = f.catalog.CreateMatching(f.ctx, &types.Matching{ID: "M1", Prompts: []string{"a"}})
	wantStatus(t, err, 400)
	if _, err := f.catalog.CreateMatching(f.ctx, &types.Matching{ID: "M1", TopicID: "T1", Prompts: []string{"a"}, Choices: []string{"b"}}); err != nil {
		t.Fatalf("CreateMatching: %v", err)
	}
	byTopic, err := f.catalog.ListMatchingByTopic(f.ctx, "T1")
	if err != nil || len(byTopic) != 1 {
		t.Fatalf("ListMatchingByTopic: %v %d", err, len(byTopic))
	}
}

func TestUserService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.ctx, f.tx, "GV0007", "Lan Nguyen", "gv0007@meraki.edu")

	_, err := f.users.SavePersonalEmail(f.ctx, "GV0007", "not-an-email")
	wantStatus(t, err, 400)
	_, err = f.users.SavePersonalEmail(f.ctx, "GV9999", "kid@example.com")
	wantStatus(t, err, 404)

	u, err := f.users.SavePersonalEmail(f.ctx, "GV0007@MERAKI.EDU", "kid@example.com")
	if err != nil {
		t.Fatalf("SavePersonalEmail: %v", err)
	}
	if u.Email != "kid@example.com" || u.NeedsPersonalEmail() {
		t.Fatalf("email not saved: %+v", u)
	}
	byEmail, err := f.users.GetByEmail(f.ctx, "kid@example.com")
	if err != nil || byEmail.ID != "GV0007" {
		t.Fatalf("GetByEmail: %v %+v", err, byEmail)
	}
	_, err = f.users.Get(f.ctx, "missing")
	wantStatus(t, err, 404)
}

func TestAuthService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.ctx, f.tx, "GV0002", "Admin Teacher", "gv0002@meraki.edu")

	_, err := f.auth.LoginStudent(f.ctx, " ")
	wantStatus(t, err, 400)
	_, err = f.auth.LoginStudent(f.ctx, "GV4040")
	wantStatus(t, err, 401)

	res, err := f.auth.LoginStudent(f.ctx, "gv0002")
	if err != nil {
		t.Fatalf("LoginStudent: %v", err)
	}
	if res.User.ID != "GV0002" || !res.NeedsPersonalEmail || res.Token == "" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	ctx, err := f.auth.SetContextFromToken(f.ctx, res.Token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.StudentID(ctx); got != "GV0002" {
		t.Fatalf("student id=%q", got)
	}
	if !f.auth.IsAdmin(ctxutil.StudentID(ctx)) || f.auth.IsAdmin("GV0003") {
		t.Fatal("admin check mismatch")
	}

	_, err = f.auth.SetContextFromToken(f.ctx, "garbage")
	wantStatus(t, err, 401)

	f.clock.t = f.clock.t.Add(2 * time.Hour)
	_, err = f.auth.SetContextFromToken(f.ctx, res.Token)
	wantStatus(t, err, 401)
}

func TestProgressServiceStreaks(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.ctx, f.tx, "GV0010", "Minh", "gv0010@meraki.edu")

	s, err := f.progress.UpdateStreak(f.ctx, "GV0010")
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if s.CurrentStreak != 0 || s.LastActivityDate != nil {
		t.Fatalf("streak without activity: %+v", s)
	}

	if s, err = f.progress.CompleteActivity(f.ctx, "GV0010"); err != nil {
		t.Fatalf("CompleteActivity: %v", err)
	}
	if s.CurrentStreak != 1 || s.LongestStreak != 1 {
		t.Fatalf("day one: %+v", s)
	}
	if s, err = f.progress.CompleteActivity(f.ctx, "GV0010"); err != nil || s.CurrentStreak != 1 {
		t.Fatalf("same day: %v %+v", err, s)
	}

	f.clock.t = f.clock.t.AddDate(0, 0, 1)
	if s, err = f.progress.CompleteActivity(f.ctx, "GV0010"); err != nil || s.CurrentStreak != 2 {
		t.Fatalf("next day: %v %+v", err, s)
	}

	f.clock.t = f.clock.t.AddDate(0, 0, 3)
	if s, err = f.progress.CompleteActivity(f.ctx, "GV0010"); err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if s.CurrentStreak != 1 || s.LongestStreak != 2 {
		t.Fatalf("after gap: %+v", s)
	}

	boards, err := f.progress.Leaderboards(f.ctx)
	if err != nil {
		t.Fatalf("Leaderboards: %v", err)
	}
	if len(boards.TotalPoints) != 1 || boards.TotalPoints[0].TotalPoints != 40 || boards.TotalPoints[0].FullName != "Minh" {
		t.Fatalf("total points: %+v", boards.TotalPoints)
	}
	if len(boards.BestStreak) != 1 || boards.BestStreak[0].LongestStreak != 2 {
		t.Fatalf("best streak: %+v", boards.BestStreak)
	}
	if len(boards.TodayQuizzes) != 1 || boards.TodayQuizzes[0].Count != 1 {
		t.Fatalf("today: %+v", boards.TodayQuizzes)
	}

	_, err = f.progress.RecordActivity(f.ctx, "GV0010", -5)
	wantStatus(t, err, 400)
}

func TestRatingService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedTopic(t, f.ctx, f.tx, "T1", "Math", nil)
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C1", TopicID: "T1", Title: "Fractions"})

	first, err := f.ratings.TrackAccess(f.ctx, "GV0011", "C1")
	if err != nil {
		t.Fatalf("TrackAccess: %v", err)
	}
	if !first.FirstView || first.Record.Rating != types.RatingViewed {
		t.Fatalf("first view: %+v", first.Record)
	}
	again, err := f.ratings.TrackAccess(f.ctx, "GV0011", "C1")
	if err != nil {
		t.Fatalf("TrackAccess again: %v", err)
	}
	if again.FirstView || again.Record.ViewCount != 2 {
		t.Fatalf("second view: %+v", again.Record)
	}
	tracked, err := f.tries.ListTryContent(f.ctx, "GV0011")
	if err != nil {
		t.Fatalf("ListTryContent: %v", err)
	}
	if len(tracked) != 1 || !strings.HasPrefix(tracked[0].QuestionIDs, "Content_viewed_") {
		t.Fatalf("tracking rows: %+v", tracked)
	}

	_, err = f.ratings.TrackAccess(f.ctx, "", "C1")
	wantStatus(t, err, 400)

	bad := types.Rating("great")
	_, err = f.ratings.Rate(f.ctx, "GV0011", "C1", &bad, nil)
	wantStatus(t, err, 400)

	hard := types.RatingReallyBad
	rated, err := f.ratings.Rate(f.ctx, "GV0011", "C1", &hard, strPtr("ask teacher"))
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rated.Rating != types.RatingReallyBad || rated.PersonalNote == nil || *rated.PersonalNote != "ask teacher" {
		t.Fatalf("rated: %+v", rated)
	}
	streak, err := f.progress.GetStreak(f.ctx, "GV0011")
	if err != nil || streak == nil || streak.CurrentStreak != 1 {
		t.Fatalf("rating should advance streak: %v %+v", err, streak)
	}

	// A note alone keeps the rating and earns nothing.
	if _, err := f.ratings.Rate(f.ctx, "GV0011", "C1", nil, strPtr("done")); err != nil {
		t.Fatalf("Rate note: %v", err)
	}
	got, err := f.ratings.Get(f.ctx, "GV0011", "C1")
	if err != nil || got.Rating != types.RatingReallyBad || *got.PersonalNote != "done" {
		t.Fatalf("Get: %v %+v", err, got)
	}
	_, err = f.ratings.Get(f.ctx, "GV0011", "C9")
	wantStatus(t, err, 404)

	stats, err := f.ratings.Stats(f.ctx, "C1")
	if err != nil || stats.Hard != 1 {
		t.Fatalf("Stats: %v %+v", err, stats)
	}
	personal, err := f.ratings.PersonalContent(f.ctx, "GV0011")
	if err != nil || len(personal) != 1 || personal[0].Title != "Fractions" {
		t.Fatalf("PersonalContent: %v %+v", err, personal)
	}
}

func TestStudentTryService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C1", TopicID: "T1", Title: "Fractions"})
	testutil.SeedQuestion(t, f.ctx, f.tx, "Q1", "C1", "Easy")

	_, err := f.tries.Create(f.ctx, &types.StudentTry{QuestionID: "Q1"})
	wantStatus(t, err, 400)

	row, err := f.tries.Create(f.ctx, &types.StudentTry{HocsinhID: "GV0012", QuestionID: "Q1", QuizResult: types.QuizResultCorrect})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(row.ID, "try_") || row.TimeStart == nil {
		t.Fatalf("unexpected row: %+v", row)
	}
	score := 3
	updated, err := f.tries.Update(f.ctx, row.ID, types.StudentTryPatch{Score: &score})
	if err != nil || updated.Score == nil || *updated.Score != 3 {
		t.Fatalf("Update: %v %+v", err, updated)
	}
	_, err = f.tries.Update(f.ctx, "try_0", types.StudentTryPatch{Score: &score})
	wantStatus(t, err, 404)

	counts, err := f.tries.CountsByContent(f.ctx, "GV0012", []string{"C1", " ", "C2"})
	if err != nil {
		t.Fatalf("CountsByContent: %v", err)
	}
	if counts["C1"] != 1 || len(counts) != 1 {
		t.Fatalf("counts: %v", counts)
	}

	board, err := f.progress.TriesLeaderboard(f.ctx)
	if err != nil || len(board) != 1 || board[0].Accuracy != 100 {
		t.Fatalf("TriesLeaderboard: %v %+v", err, board)
	}
}

func TestMatchingService(t *testing.T) {
	f := newFixture(t)
	if _, err := f.catalog.CreateMatching(f.ctx, &types.Matching{
		ID:      "M1",
		Prompts: []string{"cat", "dog"},
		Choices: []string{"meow", "woof"},
	}); err != nil {
		t.Fatalf("seed matching: %v", err)
	}

	_, err := f.matching.CreateAttempt(f.ctx, &types.MatchingAttempt{StudentID: "GV0013"})
	wantStatus(t, err, 400)

	first, err := f.matching.CreateAttempt(f.ctx, &types.MatchingAttempt{
		StudentID:  "GV0013",
		MatchingID: "M1",
		Answers:    datatypes.JSON(`{"cat":"meow","dog":"meow"}`),
	})
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	if first.AttemptNumber != 1 || *first.Score != 1 || *first.MaxScore != 2 || *first.IsCorrect {
		t.Fatalf("first attempt: %+v", first)
	}

	second, err := f.matching.CreateAttempt(f.ctx, &types.MatchingAttempt{
		StudentID:  "GV0013",
		MatchingID: "M1",
		Answers:    datatypes.JSON(`[{"prompt":"cat","choice":"meow"},{"prompt":"dog","choice":"woof"}]`),
	})
	if err != nil {
		t.Fatalf("CreateAttempt second: %v", err)
	}
	if second.AttemptNumber != 2 || !*second.IsCorrect {
		t.Fatalf("second attempt: %+v", second)
	}

	_, err = f.matching.CreateAttempt(f.ctx, &types.MatchingAttempt{StudentID: "GV0013", MatchingID: "M9", Answers: datatypes.JSON(`{}`)})
	wantStatus(t, err, 404)

	list, err := f.matching.ListAttempts(f.ctx, "GV0013", "M1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListAttempts: %v %d", err, len(list))
	}
	dur := 42
	patched, err := f.matching.UpdateAttempt(f.ctx, first.ID, types.MatchingAttemptPatch{DurationSeconds: &dur})
	if err != nil || patched.DurationSeconds == nil || *patched.DurationSeconds != 42 {
		t.Fatalf("UpdateAttempt: %v %+v", err, patched)
	}
	_, err = f.matching.GetAttempt(f.ctx, "nope")
	wantStatus(t, err, 404)
}

func TestHierarchyService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedTopic(t, f.ctx, f.tx, "T1", "Math", nil)
	testutil.SeedTopic(t, f.ctx, f.tx, "T2", "Algebra", strPtr("T1"))
	testutil.SeedTopic(t, f.ctx, f.tx, "T3", " ", nil)
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "G1", TopicID: "T2", Title: "Group", Prompt: types.PromptGroupCard})
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C1", TopicID: "T2", Title: "Geometry", ContentGroup: "G1"})
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C2", TopicID: "T1", Title: "Numbers"})
	testutil.SeedRating(t, f.ctx, f.tx, "GV0014", "C1", types.RatingReallyBad)

	view, err := f.hierarchy.Tree(f.ctx, "GV0014", "")
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(view.Tree) != 1 || view.Tree[0].ID != "T1" {
		t.Fatalf("roots: %+v", view.Tree)
	}
	want := hierarchy.Stats{Topics: 1, Subtopics: 1, GroupCards: 1, Content: 2}
	if view.Stats.Topics != want.Topics || view.Stats.Subtopics != want.Subtopics ||
		view.Stats.GroupCards != want.GroupCards || view.Stats.Content != want.Content {
		t.Fatalf("stats=%+v want=%+v", view.Stats, want)
	}
	if view.Stats.ByRating[types.RatingReallyBad] != 1 {
		t.Fatalf("rating stats: %+v", view.Stats.ByRating)
	}

	filtered, err := f.hierarchy.Tree(f.ctx, "GV0014", types.RatingReallyBad)
	if err != nil {
		t.Fatalf("Tree filtered: %v", err)
	}
	if filtered.Stats.Content != 1 || filtered.Stats.GroupCards != 1 {
		t.Fatalf("filtered stats: %+v", filtered.Stats)
	}

	all, err := f.hierarchy.Tree(f.ctx, "GV0014", types.Rating("all"))
	if err != nil || all.Stats.Content != view.Stats.Content || all.Stats.Subtopics != view.Stats.Subtopics {
		t.Fatalf("rating=all should not filter: %v %+v", err, all)
	}

	anon, err := f.hierarchy.Tree(f.ctx, "", "")
	if err != nil || len(anon.Stats.ByRating) != 0 {
		t.Fatalf("anonymous tree: %v %+v", err, anon.Stats)
	}

	_, err = f.hierarchy.Tree(f.ctx, "GV0014", types.Rating("meh"))
	wantStatus(t, err, 400)
}

func TestTrackingService(t *testing.T) {
	f := newFixture(t)
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C1", TopicID: "T1", Title: "Fractions"})
	testutil.SeedContent(t, f.ctx, f.tx, types.Content{ID: "C2", TopicID: "T1", Title: "Decimals"})
	testutil.SeedQuestion(t, f.ctx, f.tx, "Q2", "C1", "Easy")
	testutil.SeedQuestion(t, f.ctx, f.tx, "Q1", "C1", "Easy")
	testutil.SeedQuestion(t, f.ctx, f.tx, "Q3", "C2", "Hard")
	testutil.SeedQuestion(t, f.ctx, f.tx, "Q4", "", "Hard")

	now := f.clock.t
	testutil.SeedStudentTry(t, f.ctx, f.tx, "GV0015", "Q2", types.QuizResultCorrect, now.Add(-time.Hour))
	testutil.SeedStudentTry(t, f.ctx, f.tx, "GV0015", "Q1", "❌", now.Add(-2*time.Hour))
	testutil.SeedStudentTry(t, f.ctx, f.tx, "GV0015", "Q3", types.QuizResultCorrect, now.Add(-48*time.Hour))
	testutil.SeedStudentTry(t, f.ctx, f.tx, "GV0015", "Q4", types.QuizResultCorrect, now.Add(-time.Hour))

	res, err := f.tracking.UpdateStudentTracking(f.ctx)
	if err != nil {
		t.Fatalf("UpdateStudentTracking: %v", err)
	}
	if res.Succeeded != 1 || len(res.Failed) != 0 {
		t.Fatalf("result: %+v", res)
	}
	rows, err := f.tries.ListTryContent(f.ctx, "GV0015")
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows: %v %d", err, len(rows))
	}
	if rows[0].ContentID != "C1" || rows[0].QuestionIDs != "Q1, Q2" {
		t.Fatalf("tracking row: %+v", rows[0])
	}

	if _, err := f.tracking.UpdateStudentTracking(f.ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	rows, _ = f.tries.ListTryContent(f.ctx, "GV0015")
	if len(rows) != 1 || rows[0].QuestionIDs != "Q1, Q2, Q1, Q2" {
		t.Fatalf("appended row: %+v", rows)
	}
}
