package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/meraki-backend/internal/pkg/errors"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, pkgerrors.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, pkgerrors.ErrConflict},
		{"fk violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), pkgerrors.ErrInvalidArgument},
		{"sqlite unique", errors.New("UNIQUE constraint failed: content_ratings.student_id"), pkgerrors.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v in chain, got %v", tc.want, got)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("original error dropped: %v", got)
			}
		})
	}
	if MapError("op", nil) != nil {
		t.Fatal("nil should stay nil")
	}
}

func TestIsConnectionError(t *testing.T) {
	if !IsConnectionError(errors.New("dial tcp: connection refused")) {
		t.Fatal("refused should be a connection error")
	}
	if !IsConnectionError(&pgconn.PgError{Code: "08006"}) {
		t.Fatal("class 08 should be a connection error")
	}
	if IsConnectionError(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not a connection error")
	}
	if IsConnectionError(nil) {
		t.Fatal("nil is not a connection error")
	}
}

func TestRetry(t *testing.T) {
	orig := retryBackoff
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = orig })

	calls := 0
	err := Retry(context.Background(), nil, "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("got err=%v calls=%d", err, calls)
	}

	calls = 0
	boom := errors.New("syntax error")
	err = Retry(context.Background(), nil, "test", func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("non-connection errors should not retry: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(context.Background(), nil, "test", func() error {
		calls++
		return errors.New("broken pipe")
	})
	if err == nil || calls != RetryAttempts {
		t.Fatalf("expected %d attempts, got %d (err=%v)", RetryAttempts, calls, err)
	}
}
