package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

func TestLockerExclusive(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	l, err := NewLocker(logger.Nop(), addr, "test:"+uuid.NewString()+":")
	if err != nil {
		t.Fatalf("NewLocker: %v", err)
	}
	defer l.Close()
	ctx := context.Background()

	release, ok, err := l.Acquire(ctx, "tracking", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if _, ok, err := l.Acquire(ctx, "tracking", time.Minute); err != nil || ok {
		t.Fatalf("second acquire should be refused: ok=%v err=%v", ok, err)
	}
	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, ok, err := l.Acquire(ctx, "tracking", time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
	_ = again(ctx)
}

func TestLockerRejectsBadInput(t *testing.T) {
	if _, err := NewLocker(logger.Nop(), " ", ""); err == nil {
		t.Fatal("expected error for empty addr")
	}
	var l *Locker
	if _, _, err := l.Acquire(context.Background(), "k", time.Second); err == nil {
		t.Fatal("expected error for nil locker")
	}
}
