package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/obrastudio/site-backend/errs"
	"github.com/obrastudio/site-backend/models"
)

// adminUserFinder is the slice of the admin user repository the auth service
// needs. Kept as an interface so tests can fake it.
type adminUserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id string) (*models.AdminUser, error)
}

// TokenClaims is the JWT payload for admin sessions.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  adminUserFinder
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users adminUserFinder, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Login checks the credentials against the stored hash and returns a signed,
// time-limited token. Bad email and bad password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	if email == "" || password == "" {
		return "", nil, errs.NewMissingRequiredFieldError("email/password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, errs.NewStoreError("find", "admin user", err)
	}
	if user == nil {
		return "", nil, errs.NewUnauthorizedError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errs.NewUnauthorizedError("invalid email or password")
	}

	token, _, err := s.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return "", nil, errs.NewInternalErrorWithCause("signing token", err)
	}
	return token, user, nil
}

// GenerateToken signs an HS256 token for the given identity.
func (s *AuthService) GenerateToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := TokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a bearer token, mapping failures onto
// the API error taxonomy.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}

// SessionUser resolves the identity behind a validated token. Returns an
// unauthorized error when the admin no longer exists.
func (s *AuthService) SessionUser(ctx context.Context, claims *TokenClaims) (*models.AdminUser, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.NewStoreError("find", "admin user", err)
	}
	if user == nil {
		return nil, errs.NewUnauthorizedError("unknown user")
	}
	return user, nil
}

// HashPassword wraps bcrypt at the default cost; used by the bootstrap path.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
