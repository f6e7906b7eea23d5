package legacyimport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/meraki-backend/internal/data/repos/testutil"
	types "github.com/yungbote/meraki-backend/internal/domain"
)

type fakeSource struct {
	rows map[string][]Row
	err  error
}

func (f *fakeSource) Each(ctx context.Context, tm TableMapping, limit int, fn func(Row) error) error {
	if f.err != nil {
		return f.err
	}
	for i, r := range f.rows[tm.Table] {
		if limit > 0 && i >= limit {
			break
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func TestDefaultMappingCoversEveryTable(t *testing.T) {
	m, err := LoadMapping("")
	if err != nil {
		t.Fatalf("LoadMapping: %v", err)
	}
	for _, name := range Tables {
		if _, ok := m.Table(name); !ok {
			t.Fatalf("default mapping missing %s", name)
		}
	}
	q, _ := m.Table("questions")
	if q.Columns["cau_tra_loi_1"] == "" {
		t.Fatalf("question answers not mapped: %+v", q.Columns)
	}
}

func TestParseMappingErrors(t *testing.T) {
	cases := map[string]string{
		"unknown":   "tables:\n  - table: lessons\n    source: x\n    columns: {id: id}\n",
		"duplicate": "tables:\n  - table: users\n    source: Users\n    columns: {id: ID}\n  - table: users\n    source: Users\n    columns: {id: ID}\n",
		"no source": "tables:\n  - table: users\n    columns: {id: ID}\n",
		"no id":     "tables:\n  - table: users\n    source: Users\n    columns: {email: Email}\n",
	}
	for name, raw := range cases {
		if _, err := ParseMapping([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSelectSQLQuotesIdentifiers(t *testing.T) {
	tm := TableMapping{
		Table:   "users",
		Source:  "Users",
		OrderBy: "ID",
		Columns: map[string]string{"id": "ID", "meraki_email": "MerakiEmail"},
	}
	got := SelectSQL(tm, 5)
	want := `SELECT "ID" AS "id", "MerakiEmail" AS "meraki_email" FROM "Users" ORDER BY "ID" LIMIT 5`
	if got != want {
		t.Fatalf("SelectSQL:\n got %s\nwant %s", got, want)
	}
}

func TestParseTables(t *testing.T) {
	all, err := ParseTables("")
	if err != nil || len(all) != len(Tables) {
		t.Fatalf("empty list should select all: %v %v", all, err)
	}
	got, err := ParseTables("matching, Users")
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	if strings.Join(got, ",") != "users,matching" {
		t.Fatalf("tables not in import order: %v", got)
	}
	if _, err := ParseTables("users,lessons"); err == nil {
		t.Fatal("expected unknown table error")
	}
}

func TestRowHelpers(t *testing.T) {
	r := Row{
		"name":   "  Lan ",
		"flag":   "Show",
		"num":    int64(1),
		"blank":  "",
		"csv":    "Math, Reading,,",
		"pgarr":  "{Math,Reading}",
		"jsonar": `["Math","Reading"]`,
		"arr":    []any{"Math", "Reading"},
		"ts":     "2023-09-05 08:30:00",
		"doc":    `{"xin chao":"hello"}`,
		"bad":    "{not json",
	}
	if r.String("name") != "Lan" || r.String("missing") != "" {
		t.Fatalf("String: %q", r.String("name"))
	}
	if r.OptString("blank") != nil || r.OptString("name") == nil {
		t.Fatal("OptString mismatch")
	}
	if !r.Bool("flag") || !r.Bool("num") || r.Bool("blank") {
		t.Fatal("Bool mismatch")
	}
	for _, key := range []string{"csv", "pgarr", "jsonar", "arr"} {
		if got := r.List(key); strings.Join(got, "|") != "Math|Reading" {
			t.Fatalf("List(%s) = %v", key, got)
		}
	}
	ts, ok := r.Time("ts")
	if !ok || !ts.Equal(time.Date(2023, 9, 5, 8, 30, 0, 0, time.UTC)) {
		t.Fatalf("Time = %v %v", ts, ok)
	}
	if r.JSON("doc") == nil || r.JSON("bad") != nil {
		t.Fatal("JSON mismatch")
	}
}

func TestSlotsKeepPositions(t *testing.T) {
	r := Row{"prompt1": "cat", "prompt2": "", "prompt3": "dog", "prompt4": " "}
	got := r.Slots("prompt", 6)
	if len(got) != 3 || got[0] != "cat" || got[1] != "" || got[2] != "dog" {
		t.Fatalf("Slots = %#v", got)
	}
	if len(Row{}.Slots("prompt", 6)) != 0 {
		t.Fatal("empty row should give no slots")
	}
}

func TestConvertQuestionAndMatching(t *testing.T) {
	q, err := convertQuestion(Row{
		"id": "Q1", "contentid": "C1", "noi_dung": "2+2?",
		"cau_tra_loi_1": "3", "cau_tra_loi_2": "4", "correct_choice": "4",
	})
	if err != nil {
		t.Fatalf("convertQuestion: %v", err)
	}
	question := q.(*types.Question)
	if question.Text != "2+2?" || len(question.Choices) != 2 || question.Choices[1] != "4" {
		t.Fatalf("question = %+v", question)
	}

	m, err := convertMatching(Row{
		"id": "M1", "prompt1": "sun", "prompt2": "moon", "choice1": "day", "choice2": "night",
		"created_at": "2024-01-02",
	})
	if err != nil {
		t.Fatalf("convertMatching: %v", err)
	}
	matching := m.(*types.Matching)
	if len(matching.Prompts) != 2 || matching.Choices[1] != "night" || matching.CreatedAt.IsZero() {
		t.Fatalf("matching = %+v", matching)
	}

	if _, err := convertContent(Row{"title": "no id"}); !errors.Is(err, errMissingID) {
		t.Fatalf("expected errMissingID, got %v", err)
	}
	c, _ := convertContent(Row{"id": "C9"})
	if c.(*types.Content).Title != "C9" {
		t.Fatal("content title should default to id")
	}
}

func TestImporterSkipsExistingRows(t *testing.T) {
	dbc, tx := testutil.DBC(t)
	testutil.SeedUser(t, dbc.Ctx, tx, "HS001", "Existing Student", "hs001@meraki.edu")

	mapping, err := LoadMapping("")
	if err != nil {
		t.Fatalf("LoadMapping: %v", err)
	}
	src := &fakeSource{rows: map[string][]Row{
		"users": {
			{"id": "HS001", "full_name": "Renamed", "meraki_email": "hs001@meraki.edu"},
			{"id": "HS002", "full_name": "Minh Tran", "meraki_email": "hs002@meraki.edu"},
			{"full_name": "No Id"},
		},
		"topics": {
			{"id": "T1", "topic": "Fractions", "showstudent": "true"},
			{"id": "T2", "topic": "Halves", "parentid": "T1"},
		},
	}}

	im := New(testutil.Logger(t), tx, src, mapping, Options{ProgressEvery: 1})
	results, err := im.Run(dbc.Ctx, []string{"users", "topics"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	users := results["users"]
	if users.Succeeded != 1 || users.Skipped != 1 || len(users.Failed) != 1 {
		t.Fatalf("users result = %+v", users)
	}
	if users.Failed[0].Key != "row 3" {
		t.Fatalf("failure key = %q", users.Failed[0].Key)
	}
	if results["topics"].Succeeded != 2 {
		t.Fatalf("topics result = %+v", results["topics"])
	}

	var kept types.User
	if err := tx.Where("id = ?", "HS001").First(&kept).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if kept.FullName != "Existing Student" {
		t.Fatalf("existing row overwritten: %q", kept.FullName)
	}
	var child types.Topic
	if err := tx.Where("id = ?", "T2").First(&child).Error; err != nil {
		t.Fatalf("load topic: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != "T1" {
		t.Fatalf("parent not imported: %+v", child)
	}
}

func TestImporterDryRunWritesNothing(t *testing.T) {
	dbc, tx := testutil.DBC(t)
	mapping, _ := LoadMapping("")
	src := &fakeSource{rows: map[string][]Row{
		"content": {{"id": "C1", "title": "Adding"}, {"id": "C2"}, {"id": "C3"}},
	}}

	im := New(testutil.Logger(t), tx, src, mapping, Options{DryRun: true, Limit: 2})
	results, err := im.Run(dbc.Ctx, []string{"content"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results["content"].Succeeded != 2 {
		t.Fatalf("dry run result = %+v", results["content"])
	}
	var n int64
	tx.Model(&types.Content{}).Count(&n)
	if n != 0 {
		t.Fatalf("dry run wrote %d rows", n)
	}
}

func TestImporterSourceError(t *testing.T) {
	dbc, tx := testutil.DBC(t)
	mapping, _ := LoadMapping("")
	im := New(testutil.Logger(t), tx, &fakeSource{err: errors.New("relation does not exist")}, mapping, Options{})
	if _, err := im.Run(dbc.Ctx, []string{"videos"}); err == nil || !strings.Contains(err.Error(), "import videos") {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}
