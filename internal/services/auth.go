package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/ctxutil"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// LoginResult is what a successful student login hands back to the client.
type LoginResult struct {
	User               *types.User `json:"user"`
	NeedsPersonalEmail bool        `json:"needsPersonalEmail"`
	Token              string      `json:"token"`
}

type AuthService interface {
	LoginStudent(ctx context.Context, identifier string) (*LoginResult, error)
	IssueToken(user *types.User) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IsAdmin(studentID string) bool
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	admins       map[string]struct{}
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	adminStudentIDs []string,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	admins := make(map[string]struct{}, len(adminStudentIDs))
	for _, id := range adminStudentIDs {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			admins[id] = struct{}{}
		}
	}
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		admins:       admins,
		now:          time.Now,
	}
}

func (as *authService) LoginStudent(ctx context.Context, identifier string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apierr.BadRequest("Student ID or Meraki Email is required")
	}
	var u *types.User
	err := db.Retry(ctx, as.log, "login lookup", func() error {
		var ferr error
		u, ferr = as.userRepo.GetByIdentifier(dbctx.New(ctx), identifier)
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if u == nil {
		as.log.Info("Student login rejected", "identifier_len", len(identifier))
		return nil, apierr.Unauthorized("Invalid Student ID or Meraki Email")
	}
	token, err := as.IssueToken(u)
	if err != nil {
		return nil, err
	}
	as.log.Info("Student logged in", "student_id", u.ID)
	return &LoginResult{User: u, NeedsPersonalEmail: u.NeedsPersonalEmail(), Token: token}, nil
}

func (as *authService) IssueToken(user *types.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("issue token: missing user")
	}
	if as.jwtSecretKey == "" {
		return "", fmt.Errorf("issue token: JWT secret not configured")
	}
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("Not authenticated")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	parsedToken, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, apierr.Unauthorized("Session expired")
		}
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid || strings.TrimSpace(claims.Subject) == "" {
		return ctx, apierr.Unauthorized("Invalid or expired token")
	}
	rd := &ctxutil.RequestData{StudentID: claims.Subject}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) IsAdmin(studentID string) bool {
	_, ok := as.admins[strings.ToUpper(strings.TrimSpace(studentID))]
	return ok
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
