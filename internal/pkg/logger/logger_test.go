package logger

import (
	"strings"
	"testing"
)

func TestRedactorSanitizeKVs(t *testing.T) {
	r := &redactor{enabled: true, salt: "pepper"}

	out := r.sanitizeKVs([]interface{}{
		"student_id", "GV0002",
		"token", "abc",
		"meraki_email", "kid@meraki.edu",
		"content_id", "C1",
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("unexpected length: got=%d want=9", len(out))
	}
	if got, _ := out[1].(string); !strings.HasPrefix(got, "hash:") || got == "hash:" {
		t.Fatalf("student_id not hashed: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("token not redacted: %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("email not redacted: %v", out[5])
	}
	if out[7] != "C1" {
		t.Fatalf("content_id changed: %v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[8])
	}
}

func TestRedactorHashIsStable(t *testing.T) {
	r := &redactor{enabled: true, salt: "s"}
	a := r.hashValue("GV0002")
	b := r.hashValue("GV0002")
	if a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if a == r.hashValue("GV0003") {
		t.Fatal("distinct ids hashed to the same value")
	}
}

func TestRedactorDisabledPassesThrough(t *testing.T) {
	var r *redactor
	kv := []interface{}{"token", "abc"}
	out := r.sanitizeKVs(kv)
	if out[1] != "abc" {
		t.Fatalf("nil redactor should pass through, got %v", out[1])
	}

	off := &redactor{enabled: false}
	if got := off.sanitizeKVs(kv)[1]; got != "abc" {
		t.Fatalf("disabled redactor should pass through, got %v", got)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJHVjAwMDIifQ.sig") {
		t.Fatal("expected jwt-shaped value to match")
	}
	if looksLikeJWT("a.b.c") {
		t.Fatal("short segments should not match")
	}
}
