package batch

import (
	"errors"
	"strings"
	"testing"
)

func TestResult(t *testing.T) {
	var r Result
	if r.Err() != nil {
		t.Fatal("empty result should not error")
	}
	r.Ok()
	r.Ok()
	r.Skip()
	r.Fail("GV0002/C1", errors.New("duplicate key"))

	var other Result
	other.Ok()
	other.Fail("GV0003/C2", nil)
	r.Merge(other)

	if r.Succeeded != 3 || r.Skipped != 1 || len(r.Failed) != 2 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.Total() != 6 {
		t.Fatalf("total=%d want=6", r.Total())
	}
	err := r.Err()
	if err == nil || !strings.Contains(err.Error(), "2 of 6") || !strings.Contains(err.Error(), "GV0002/C1") {
		t.Fatalf("unexpected err: %v", err)
	}
}
