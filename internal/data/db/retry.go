package db

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

// RetryAttempts is how many times Retry runs fn before giving up.
const RetryAttempts = 3

// retryBackoff is the base delay; attempt n waits n*retryBackoff.
var retryBackoff = time.Second

// Retry runs fn again when it fails with a connection-level error, waiting
// attempt*1s between tries. Other errors return immediately.
func Retry(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= RetryAttempts; attempt++ {
		err = fn()
		if err == nil || !IsConnectionError(err) || attempt == RetryAttempts {
			return err
		}
		if log != nil {
			log.Warn("Database connection error, retrying", "op", op, "attempt", attempt, "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

// IsConnectionError reports whether err looks like a dropped or refused connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 57P01: admin shutdown
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01"
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{"connection refused", "connection reset", "broken pipe", "connection terminated", "bad connection", "server closed the connection"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
