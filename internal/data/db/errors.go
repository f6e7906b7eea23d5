package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/meraki-backend/internal/pkg/errors"
)

// MapError folds driver errors into the pkg/errors sentinels, keeping the
// original error in the chain.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrConflict, err)
		case "23503", "23502", "22P02": // foreign_key, not_null, invalid_text_representation
			return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrInvalidArgument, err)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
