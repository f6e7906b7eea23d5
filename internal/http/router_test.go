package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meraki-backend/internal/data/repos"
	"github.com/yungbote/meraki-backend/internal/data/repos/testutil"
	types "github.com/yungbote/meraki-backend/internal/domain"
	httpH "github.com/yungbote/meraki-backend/internal/http/handlers"
	httpMW "github.com/yungbote/meraki-backend/internal/http/middleware"
	"github.com/yungbote/meraki-backend/internal/jobs/scheduler"
	"github.com/yungbote/meraki-backend/internal/modules/hierarchy"
	"github.com/yungbote/meraki-backend/internal/pkg/batch"
	"github.com/yungbote/meraki-backend/internal/services"
)

type okPinger struct{ err error }

func (p okPinger) PingContext(context.Context) error { return p.err }

type fakeRunner struct {
	calls int
	res   batch.Result
	err   error
}

func (r *fakeRunner) RunNow(_ context.Context, name string) (batch.Result, error) {
	r.calls++
	if name != scheduler.StudentTrackingJob {
		return batch.Result{}, errors.New("unexpected job " + name)
	}
	return r.res, r.err
}

type apiFixture struct {
	ctx    context.Context
	router *gin.Engine
	runner *fakeRunner
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_, tx := testutil.DBC(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	testutil.SeedUser(t, ctx, tx, "HS001", "Lan Nguyen", "lan@meraki.edu")
	testutil.SeedUser(t, ctx, tx, "GV0002", "Teacher", "teacher@meraki.edu")
	testutil.SeedTopic(t, ctx, tx, "T1", "Math", nil)
	testutil.SeedContent(t, ctx, tx, types.Content{ID: "C1", TopicID: "T1", Title: "Fractions"})
	testutil.SeedQuestion(t, ctx, tx, "Q1", "C1", "easy")

	userRepo := repos.NewUserRepo(tx, log)
	topicRepo := repos.NewTopicRepo(tx, log)
	contentRepo := repos.NewContentRepo(tx, log)
	ratingRepo := repos.NewContentRatingRepo(tx, log)
	tryRepo := repos.NewStudentTryRepo(tx, log)
	tryContentRepo := repos.NewStudentTryContentRepo(tx, log)
	matchingRepo := repos.NewMatchingRepo(tx, log)

	userService := services.NewUserService(tx, log, userRepo)
	authService := services.NewAuthService(tx, log, userRepo, "router-secret", time.Hour, []string{"GV0002"})
	catalog := services.NewCatalogService(tx, log, topicRepo, contentRepo,
		repos.NewImageRepo(tx, log), repos.NewVideoRepo(tx, log), repos.NewQuestionRepo(tx, log), matchingRepo)
	progress := services.NewProgressService(tx, log,
		repos.NewStudentStreakRepo(tx, log), repos.NewDailyActivityRepo(tx, log), tryRepo, time.Now)
	ratings := services.NewRatingService(tx, log, ratingRepo, tryContentRepo, progress)
	tries := services.NewStudentTryService(tx, log, tryRepo, tryContentRepo)
	matching := services.NewMatchingService(tx, log, matchingRepo, repos.NewMatchingAttemptRepo(tx, log))
	tree := services.NewHierarchyService(tx, log, topicRepo, contentRepo, ratingRepo, hierarchy.Options{})

	bind := httpH.NewBinder()
	runner := &fakeRunner{}
	router := NewRouter(RouterConfig{
		Log:               log,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authService),
		HealthHandler:     httpH.NewHealthHandler(okPinger{}),
		AuthHandler:       httpH.NewAuthHandler(log, bind, authService, userService),
		UserHandler:       httpH.NewUserHandler(log, userService),
		CatalogHandler:    httpH.NewCatalogHandler(log, bind, catalog),
		RatingHandler:     httpH.NewRatingHandler(log, bind, ratings),
		ProgressHandler:   httpH.NewProgressHandler(log, bind, progress),
		StudentTryHandler: httpH.NewStudentTryHandler(log, bind, tries),
		MatchingHandler:   httpH.NewMatchingHandler(log, bind, matching),
		HierarchyHandler:  httpH.NewHierarchyHandler(log, tree),
		CronHandler:       httpH.NewCronHandler(log, runner),
	})
	return &apiFixture{ctx: ctx, router: router, runner: runner}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func (f *apiFixture) login(t *testing.T, identifier string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/student-login", "", map[string]string{"identifier": identifier})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status=%d body=%s", identifier, rec.Code, rec.Body.String())
	}
	out := decode[struct {
		Success            bool   `json:"success"`
		Token              string `json:"token"`
		NeedsPersonalEmail bool   `json:"needsPersonalEmail"`
	}](t, rec)
	if !out.Success || out.Token == "" || !out.NeedsPersonalEmail {
		t.Fatalf("unexpected login body: %s", rec.Body.String())
	}
	return out.Token
}

func TestHealthRoutes(t *testing.T) {
	f := newAPIFixture(t)
	if rec := f.do(t, http.MethodGet, "/healthcheck", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	rec := f.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec)["database"]; got != "connected" {
		t.Fatalf("database=%q", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing request id header")
	}
}

func TestStudentLoginAndProtectedRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/student-login", "", map[string]string{"identifier": "nobody"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown student: status=%d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["error"]; msg != "Invalid Student ID or Meraki Email" {
		t.Fatalf("unexpected error: %q", msg)
	}
	if rec := f.do(t, http.MethodPost, "/api/auth/student-login", "", "{"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status=%d", rec.Code)
	}

	if rec := f.do(t, http.MethodGet, "/api/topics", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("topics without token: status=%d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/topics", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("topics with bad token: status=%d", rec.Code)
	}

	token := f.login(t, "lan@meraki.edu")
	rec = f.do(t, http.MethodGet, "/api/topics", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("topics: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if topics := decode[[]types.Topic](t, rec); len(topics) != 1 || topics[0].ID != "T1" {
		t.Fatalf("unexpected topics: %s", rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/auth/user", token, nil)
	if got := decode[types.User](t, rec); got.ID != "HS001" {
		t.Fatalf("current user: %s", rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/auth/setup-email", token, map[string]string{"personalEmail": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email: status=%d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/auth/setup-email", token, map[string]string{"personalEmail": "lan@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("setup-email: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/auth/set-personal-email", "", map[string]string{"identifier": "nobody", "personalEmail": "x@example.com"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("set-personal-email unknown: status=%d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/auth/set-personal-email", "", map[string]string{"identifier": "HS001"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("set-personal-email missing email: status=%d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["error"]; msg != "personalEmail is required" {
		t.Fatalf("unexpected validation message: %q", msg)
	}
}

func TestAdminRoutes(t *testing.T) {
	f := newAPIFixture(t)
	student := f.login(t, "HS001")
	admin := f.login(t, "GV0002")

	body := map[string]any{"id": "T2", "topic": "Science"}
	if rec := f.do(t, http.MethodPost, "/api/topics", student, body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("student creating topic: status=%d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/topics", admin, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin creating topic: status=%d body=%s", rec.Code, rec.Body.String())
	}
	out := decode[struct {
		Success bool        `json:"success"`
		Topic   types.Topic `json:"topic"`
		Message string      `json:"message"`
	}](t, rec)
	if !out.Success || out.Topic.ID != "T2" || out.Message == "" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = f.do(t, http.MethodPut, "/api/topics/missing", admin, map[string]string{"short_summary": "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing topic: status=%d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/matching", admin, map[string]any{
		"id":      "M1",
		"topicid": "T1",
		"prompts": []string{"2+2", "3+3"},
		"choices": []string{"4", "6"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create matching: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestContentAccessAndRatings(t *testing.T) {
	f := newAPIFixture(t)

	if rec := f.do(t, http.MethodPost, "/api/content-access", "", map[string]string{"student_id": "HS001"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing content_id: status=%d", rec.Code)
	}

	type accessBody struct {
		Success bool                `json:"success"`
		Record  types.ContentRating `json:"record"`
		Message string              `json:"message"`
	}
	access := map[string]string{"student_id": "HS001", "content_id": "C1"}
	first := decode[accessBody](t, f.do(t, http.MethodPost, "/api/content-access", "", access))
	if !first.Success || first.Record.ViewCount != 1 || first.Record.Rating != types.RatingViewed || first.Message != "Content access recorded" {
		t.Fatalf("first access: %+v", first)
	}
	second := decode[accessBody](t, f.do(t, http.MethodPost, "/api/content-access", "", access))
	if second.Record.ViewCount != 2 || second.Message != "Content view count updated" {
		t.Fatalf("second access: %+v", second)
	}

	rec := f.do(t, http.MethodPut, "/api/content-ratings/HS001/C1", "", map[string]string{"rating": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad rating: status=%d", rec.Code)
	}
	rec = f.do(t, http.MethodPut, "/api/content-ratings/HS001/C1", "", map[string]string{"rating": "ok", "personal_note": "easy"})
	if got := decode[types.ContentRating](t, rec); got.Rating != types.RatingOK {
		t.Fatalf("rate: %s", rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/content-ratings/stats/C1", "", nil)
	if got := decode[types.RatingStats](t, rec); got.Easy != 1 {
		t.Fatalf("stats: %s", rec.Body.String())
	}
	if rec := f.do(t, http.MethodGet, "/api/content-ratings/HS001/C9", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing rating: status=%d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/streaks/HS001", "", nil)
	if got := decode[types.StudentStreak](t, rec); got.CurrentStreak != 1 {
		t.Fatalf("streak after rating: %s", rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/hierarchy/HS001?rating=ok", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hierarchy: status=%d body=%s", rec.Code, rec.Body.String())
	}
	view := decode[services.HierarchyView](t, rec)
	if view.Stats.Content != 1 {
		t.Fatalf("hierarchy stats: %+v", view.Stats)
	}
	if rec := f.do(t, http.MethodGet, "/api/hierarchy/HS001?rating=great", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("hierarchy bad rating: status=%d", rec.Code)
	}
}

func TestProgressAndTries(t *testing.T) {
	f := newAPIFixture(t)

	if rec := f.do(t, http.MethodGet, "/api/streaks/HS001", "", nil); rec.Body.String() != "null" {
		t.Fatalf("streak without row: %q", rec.Body.String())
	}
	rec := f.do(t, http.MethodPost, "/api/daily-activities", "", map[string]any{"studentId": "HS001", "points": 15})
	if got := decode[types.DailyActivity](t, rec); got.PointsEarned != 15 {
		t.Fatalf("daily activity: %s", rec.Body.String())
	}
	if rec := f.do(t, http.MethodPost, "/api/daily-activities", "", map[string]any{"points": 5}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing studentId: status=%d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/api/leaderboards", "", nil)
	if got := decode[types.Leaderboards](t, rec); len(got.TotalPoints) != 1 || got.TotalPoints[0].TotalPoints != 15 {
		t.Fatalf("leaderboards: %s", rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/student-tries", "", map[string]any{"hocsinh_id": "HS001", "question_id": "Q1", "quiz_result": "✅"})
	created := decode[types.StudentTry](t, rec)
	if created.ID == "" {
		t.Fatalf("create try: %s", rec.Body.String())
	}
	rec = f.do(t, http.MethodPatch, "/api/student-tries/"+created.ID, "", map[string]any{"score": 3})
	if got := decode[types.StudentTry](t, rec); got.Score == nil || *got.Score != 3 {
		t.Fatalf("update try: %s", rec.Body.String())
	}
	if rec := f.do(t, http.MethodGet, "/api/student-tries/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing try: status=%d", rec.Code)
	}

	if rec := f.do(t, http.MethodGet, "/api/student-tries-count/HS001", "", nil); rec.Body.String() != "{}" {
		t.Fatalf("count without ids: %q", rec.Body.String())
	}
	rec = f.do(t, http.MethodGet, "/api/student-tries-count/HS001?contentIds=C1,C2", "", nil)
	if got := decode[map[string]int64](t, rec); got["C1"] != 1 {
		t.Fatalf("counts: %s", rec.Body.String())
	}
}

func TestCronRoute(t *testing.T) {
	f := newAPIFixture(t)

	f.runner.res = batch.Result{Succeeded: 2}
	rec := f.do(t, http.MethodPost, "/api/cron/update-student-tracking", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cron: status=%d body=%s", rec.Code, rec.Body.String())
	}
	out := decode[struct {
		Success bool         `json:"success"`
		Result  batch.Result `json:"result"`
	}](t, rec)
	if !out.Success || out.Result.Succeeded != 2 {
		t.Fatalf("cron body: %s", rec.Body.String())
	}

	f.runner.err = scheduler.ErrSkipped
	if rec := f.do(t, http.MethodPost, "/api/cron/update-student-tracking", "", nil); rec.Code != http.StatusConflict {
		t.Fatalf("overlapping run: status=%d", rec.Code)
	}
	f.runner.err = errors.New("db down")
	rec = f.do(t, http.MethodPost, "/api/cron/update-student-tracking", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failed run: status=%d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["error"]; msg != "Failed to update student tracking" {
		t.Fatalf("server error leaked: %q", msg)
	}
	if f.runner.calls != 3 {
		t.Fatalf("runner calls=%d", f.runner.calls)
	}
}
