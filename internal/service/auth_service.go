package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
)

type authUserRepository interface {
	FindByGithubID(ctx context.Context, githubID int) (*models.User, error)
}

// AuthConfig defines configuration for access tokens.
type AuthConfig struct {
	Secret      string
	Expiry      time.Duration
	Issuer      string
	AdminEmails []string
}

// AuthService issues and validates the bearer tokens that carry the principal.
// The GitHub OAuth exchange happens upstream; this service only trusts its own signature.
type AuthService struct {
	repo   authUserRepository
	logger *zap.Logger
	config AuthConfig
	admins map[string]struct{}
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	admins := make(map[string]struct{}, len(config.AdminEmails))
	for _, email := range config.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &AuthService{repo: repo, logger: logger, config: config, admins: admins}
}

// RolesFor derives the granted roles of a user.
func (s *AuthService) RolesFor(user *models.User) []models.UserRole {
	roles := []models.UserRole{models.RoleUser}
	if user == nil {
		return roles
	}
	if _, listed := s.admins[strings.ToLower(user.Email)]; user.Admin || listed {
		roles = append(roles, models.RoleAdmin)
	}
	if user.Instructor {
		roles = append(roles, models.RoleInstructor)
	}
	return roles
}

// GenerateToken signs an access token for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, "user is required")
	}
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.JWTClaims{
		UserID:      user.ID,
		GithubID:    user.GithubID,
		GithubLogin: user.GithubLogin,
		Email:       user.Email,
		Roles:       s.RolesFor(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, expiresAt, nil
}

// IssueForGithubID loads a user by GitHub id and signs a token for it.
func (s *AuthService) IssueForGithubID(ctx context.Context, githubID int) (string, time.Time, error) {
	user, err := s.repo.FindByGithubID(ctx, githubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, appErrors.EntityNotFound("User", githubID)
		}
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to load user")
	}
	s.logger.Info("token issued", zap.Int("github_id", githubID), zap.String("login", user.GithubLogin))
	return s.GenerateToken(user)
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAccessDenied.Type, appErrors.ErrAccessDenied.Status, appErrors.ErrAccessDenied.Message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.ErrAccessDenied
	}

	return claims, nil
}
