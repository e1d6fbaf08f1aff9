package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
)

type currentUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ListEmails(ctx context.Context, userID int64) ([]models.UserEmail, error)
	UpdateLastOnline(ctx context.Context, id int64, ts time.Time) error
}

// CurrentUserService serves information about the authenticated principal.
type CurrentUserService struct {
	repo   currentUserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCurrentUserService constructs a CurrentUserService.
func NewCurrentUserService(repo currentUserRepository, logger *zap.Logger) *CurrentUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurrentUserService{repo: repo, logger: logger, now: time.Now}
}

// Get reloads the principal's user record and pairs it with the token roles.
func (s *CurrentUserService) Get(ctx context.Context, claims *models.JWTClaims) (*models.CurrentUser, error) {
	if claims == nil {
		return nil, appErrors.ErrAccessDenied
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, userLookupError(err, claims.UserID)
	}

	roles := claims.Roles
	if roles == nil {
		roles = []models.UserRole{}
	}
	return &models.CurrentUser{User: *user, Roles: roles}, nil
}

// Emails lists the addresses recorded for the principal.
func (s *CurrentUserService) Emails(ctx context.Context, claims *models.JWTClaims) ([]models.UserEmail, error) {
	if claims == nil {
		return nil, appErrors.ErrAccessDenied
	}
	emails, err := s.repo.ListEmails(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to list emails")
	}
	return emails, nil
}

// UpdateLastOnline stamps the principal as online now.
func (s *CurrentUserService) UpdateLastOnline(ctx context.Context, claims *models.JWTClaims) (*models.LastOnline, error) {
	if claims == nil {
		return nil, appErrors.ErrAccessDenied
	}
	ts := s.now().UTC()
	if err := s.repo.UpdateLastOnline(ctx, claims.UserID, ts); err != nil {
		return nil, userLookupError(err, claims.UserID)
	}
	s.logger.Debug("last online updated", zap.Int64("user_id", claims.UserID))
	return &models.LastOnline{LastOnline: ts}, nil
}

func userLookupError(err error, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.EntityNotFound("User", id)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to load user")
}
