package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/obrastudio/site-backend/errs"
	"github.com/obrastudio/site-backend/models"
)

type fakeAdminFinder struct {
	byEmail map[string]*models.AdminUser
	byID    map[string]*models.AdminUser
}

func (f *fakeAdminFinder) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	return f.byEmail[email], nil
}

func (f *fakeAdminFinder) FindByID(_ context.Context, id string) (*models.AdminUser, error) {
	return f.byID[id], nil
}

func newTestAuth(t *testing.T, ttl time.Duration) (*AuthService, *models.AdminUser) {
	t.Helper()

	hash, err := HashPassword("segredo123")
	require.NoError(t, err)

	user := &models.AdminUser{
		ID:           primitive.NewObjectID(),
		Email:        "admin@site.com",
		PasswordHash: hash,
	}
	finder := &fakeAdminFinder{
		byEmail: map[string]*models.AdminUser{user.Email: user},
		byID:    map[string]*models.AdminUser{user.ID.Hex(): user},
	}
	return NewAuthService(finder, "test-secret", ttl), user
}

func TestLogin_Success(t *testing.T) {
	auth, user := newTestAuth(t, time.Hour)

	token, got, err := auth.Login(context.Background(), "admin@site.com", "segredo123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.Email, got.Email)
}

func TestLogin_BadCredentials(t *testing.T) {
	auth, _ := newTestAuth(t, time.Hour)

	_, _, err := auth.Login(context.Background(), "admin@site.com", "errada")
	require.Error(t, err)
	assert.Equal(t, 401, errs.StatusOf(err))

	_, _, err = auth.Login(context.Background(), "nobody@site.com", "segredo123")
	require.Error(t, err)
	assert.Equal(t, 401, errs.StatusOf(err))
}

func TestLogin_MissingFields(t *testing.T) {
	auth, _ := newTestAuth(t, time.Hour)

	_, _, err := auth.Login(context.Background(), "", "segredo123")
	require.Error(t, err)
	assert.Equal(t, 400, errs.StatusOf(err))

	_, _, err = auth.Login(context.Background(), "admin@site.com", "")
	require.Error(t, err)
	assert.Equal(t, 400, errs.StatusOf(err))
}

func TestTokenRoundTrip(t *testing.T) {
	auth, user := newTestAuth(t, time.Hour)

	token, expiresAt, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestValidateToken_Expired(t *testing.T) {
	auth, user := newTestAuth(t, -time.Minute)

	token, _, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errs.IsExpiredTokenError(err))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	auth, user := newTestAuth(t, time.Hour)
	token, _, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	require.NoError(t, err)

	other := NewAuthService(&fakeAdminFinder{}, "other-secret", time.Hour)
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidTokenError(err))
}

func TestValidateToken_Garbage(t *testing.T) {
	auth, _ := newTestAuth(t, time.Hour)

	_, err := auth.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, 401, errs.StatusOf(err))
}

func TestSessionUser_UnknownID(t *testing.T) {
	auth, _ := newTestAuth(t, time.Hour)

	_, err := auth.SessionUser(context.Background(), &TokenClaims{UserID: primitive.NewObjectID().Hex()})
	require.Error(t, err)
	assert.Equal(t, 401, errs.StatusOf(err))
}
