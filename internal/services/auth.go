package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	pkgerrors "github.com/prepmate/prepmate-backend/internal/pkg/errors"
	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/requestdata"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	// SetContextFromToken verifies the access token and attaches the caller's
	// identity to the context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("%w: no user given", pkgerrors.ErrInvalidArgument)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if user.Email == "" || user.Password == "" || user.FirstName == "" || user.LastName == "" {
		return fmt.Errorf("%w: email, password, first name and last name are required", pkgerrors.ErrInvalidArgument)
	}
	exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: email already in use", pkgerrors.ErrInvalidArgument)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.ID = uuid.New()
	user.Password = string(hashed)
	user.IsActive = true
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	as.log.Info("User registered", "user_id", user.ID.String())
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", pkgerrors.ErrInvalidArgument)
	}
	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("failed to load user by email: %w", err)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("%w: invalid credentials", pkgerrors.ErrUnauthorized)
	}
	user := users[0]
	if !user.IsActive {
		return "", "", fmt.Errorf("%w: account disabled", pkgerrors.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%w: invalid credentials", pkgerrors.ErrUnauthorized)
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if err != nil {
			return fmt.Errorf("failed to check user tokens: %w", err)
		}
		expired := make([]uuid.UUID, 0, len(existing))
		for _, tok := range existing {
			if tok.ExpiresAt.Before(time.Now()) {
				expired = append(expired, tok.ID)
			}
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, expired); err != nil {
			return fmt.Errorf("failed to delete expired tokens: %w", err)
		}
		accessToken, err = as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("failed to create user token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", fmt.Errorf("%w: missing refresh token", pkgerrors.ErrUnauthorized)
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if err != nil {
			return fmt.Errorf("failed to load refresh token: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: unknown refresh token", pkgerrors.ErrUnauthorized)
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("failed to delete expired token: %w", err)
			}
			return fmt.Errorf("%w: refresh token expired", pkgerrors.ErrUnauthorized)
		}
		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("failed to load user for refresh: %w", err)
		}
		if len(users) == 0 || !users[0].IsActive {
			return fmt.Errorf("%w: no active user for refresh token", pkgerrors.ErrUnauthorized)
		}
		accessToken, err = as.generateAccessToken(users[0])
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		newRefreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       users[0].ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("failed to create user token: %w", err)
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("failed to remove old refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return fmt.Errorf("%w: missing access token", pkgerrors.ErrUnauthorized)
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("failed to load user token: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(found))
		for _, tok := range found {
			ids = append(ids, tok.ID)
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete user token: %w", err)
		}
		return nil
	})
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid token", pkgerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid token subject", pkgerrors.ErrUnauthorized)
	}
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return ctx, fmt.Errorf("%w: no active user for token", pkgerrors.ErrUnauthorized)
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
