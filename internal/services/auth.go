package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/types"
	"github.com/mindweave/mindweave-backend/internal/utils"
)

// AuthService registers users and verifies access tokens. Token
// issuance lives with the external identity provider; this service only
// validates the bearer tokens it minted.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*types.User, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// VerifyToken parses and validates an HMAC-signed access token and
	// returns the user ID from its subject claim.
	VerifyToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	log       *logger.Logger
	userRepo  repos.UserRepo
	jwtSecret []byte
}

func NewAuthService(baseLog *logger.Logger, userRepo repos.UserRepo) (AuthService, error) {
	secret := utils.GetEnv("JWT_SECRET", "", baseLog)
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	return &authService{
		log:       baseLog.With("service", "AuthService"),
		userRepo:  userRepo,
		jwtSecret: []byte(secret),
	}, nil
}

func (as *authService) Register(ctx context.Context, email, password, displayName string) (*types.User, error) {
	if email == "" || password == "" || displayName == "" {
		return nil, apperr.InvalidArgument("Email, password, and display name are required.")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("A user with this email already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		Email:        email,
		Password:     string(hashed),
		DisplayName:  displayName,
		Subscription: "free",
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		// A concurrent registration can slip past the existence check; the
		// unique index on email is the real guard.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("A user with this email already exists.")
		}
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("User profile not found in database.")
	}
	return users[0], nil
}

func (as *authService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, apperr.Unauthenticated("Invalid or expired token.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apperr.Unauthenticated("Invalid or expired token.")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, apperr.Unauthenticated("Invalid or expired token.")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apperr.Unauthenticated("Invalid or expired token.")
	}
	return userID, nil
}

// MintToken builds a short-lived HS256 token for a user. Exported for
// tests and local tooling; production tokens come from the identity
// provider sharing the same secret.
func MintToken(secret []byte, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
