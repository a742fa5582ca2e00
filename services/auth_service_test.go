package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/config"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testTokenService() *TokenService {
	return NewTokenService(config.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected *apperrors.Error, got %T: %v", err, err)
	return appErr.Code
}

func registerReq(name string) RegisterRequest {
	return RegisterRequest{
		UserName: name,
		Email:    name + "@example.com",
		Password: "s3cret-pass",
		Phone:    int64(len(name)) * 1111111111,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := newFakeUsers()
		svc := NewAuthService(users, testTokenService(), nil)

		res, err := svc.Register(ctx, registerReq("alice"))
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
		assert.Equal(t, models.RoleUser, res.User.Role)
		assert.Len(t, res.User.ReferralCode, 4)
		assert.NotEqual(t, "s3cret-pass", res.User.Password)

		stored, err := users.FindByID(ctx, res.User.ID)
		require.NoError(t, err)
		assert.Equal(t, res.RefreshToken, stored.RefreshToken)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(), testTokenService(), nil)
		req := registerReq("bob")
		req.Phone = 0

		_, err := svc.Register(ctx, req)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("Weak Password", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(), testTokenService(), nil)
		req := registerReq("carol")
		req.Password = "password"

		_, err := svc.Register(ctx, req)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Contains(t, err.Error(), "too common")
	})

	t.Run("Duplicate Identity", func(t *testing.T) {
		users := newFakeUsers()
		svc := NewAuthService(users, testTokenService(), nil)
		_, err := svc.Register(ctx, registerReq("dave"))
		require.NoError(t, err)

		_, err = svc.Register(ctx, registerReq("dave"))
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("With Referral Code", func(t *testing.T) {
		referrer := &models.User{UserName: "ref", Email: "ref@example.com", Phone: 1, ReferralCode: "4242"}
		users := newFakeUsers(referrer)
		svc := NewAuthService(users, testTokenService(), nil)
		req := registerReq("erin")
		req.ReferralCode = "4242"

		res, err := svc.Register(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, res.User.ReferredBy)
		assert.Equal(t, referrer.ID, *res.User.ReferredBy)

		stored, _ := users.FindByID(ctx, referrer.ID)
		assert.Contains(t, stored.ReferredUsers, res.User.ID)
	})

	t.Run("Unknown Referral Code", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(), testTokenService(), nil)
		req := registerReq("frank")
		req.ReferralCode = "0000"

		_, err := svc.Register(ctx, req)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("Referral Code Collision Retries", func(t *testing.T) {
		taken := &models.User{UserName: "taken", Email: "taken@example.com", Phone: 2, ReferralCode: "1111"}
		svc := NewAuthService(newFakeUsers(taken), testTokenService(), nil)
		codes := []string{"1111", "1111", "2222"}
		svc.newCode = func() string {
			c := codes[0]
			codes = codes[1:]
			return c
		}

		res, err := svc.Register(ctx, registerReq("gina"))
		require.NoError(t, err)
		assert.Equal(t, "2222", res.User.ReferralCode)
	})

	t.Run("Token Failure", func(t *testing.T) {
		tokens := new(MockTokenService)
		tokens.On("GenerateTokenPair", mock.Anything).Return(nil, errors.New("boom")).Once()
		svc := NewAuthService(newFakeUsers(), tokens, nil)

		_, err := svc.Register(ctx, registerReq("hank"))
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
		tokens.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := &models.User{UserName: "alice", Email: "alice@example.com", Password: hash, Role: models.RoleUser}

	t.Run("Success", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(user), testTokenService(), nil)
		res, err := svc.Login(ctx, "  Alice@Example.com ", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, res.Role)
		assert.NotEmpty(t, res.RefreshToken)
	})

	t.Run("User Not Found", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(user), testTokenService(), nil)
		_, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("Incorrect Password", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(user), testTokenService(), nil)
		_, err := svc.Login(ctx, user.Email, "wrong-pass")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestRefresh_SingleSession(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUsers(), testTokenService(), nil)

	reg, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	first, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshReused)
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshReused)

	rotated, err := svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, second.RefreshToken, rotated.RefreshToken)

	// Rotation retires the token that was just used.
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshReused)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUsers(), testTokenService(), nil)
	reg, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, reg.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = svc.Refresh(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := NewAuthService(users, testTokenService(), nil)
	reg, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.User.ID))

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshReused)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUsers(), testTokenService(), nil)
	reg, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, reg.User.ID, "not-my-pass", "brand-new-pass")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	require.NoError(t, svc.ChangePassword(ctx, reg.User.ID, "s3cret-pass", "brand-new-pass"))

	_, err = svc.Login(ctx, "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestGetReferredUsers(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := NewAuthService(users, testTokenService(), nil)

	ref, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	req := registerReq("bob")
	req.ReferralCode = ref.User.ReferralCode
	_, err = svc.Register(ctx, req)
	require.NoError(t, err)

	referred, err := svc.GetReferredUsers(ctx, ref.User.ID)
	require.NoError(t, err)
	require.Len(t, referred, 1)
	assert.Equal(t, "bob", referred[0].UserName)
}

func TestPromoteAdmin(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers(&models.User{UserName: "alice", Email: "alice@example.com", Role: models.RoleUser})
	svc := NewAuthService(users, testTokenService(), nil)

	require.NoError(t, svc.PromoteAdmin(ctx, " ALICE@example.com "))
	u, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	err = svc.PromoteAdmin(ctx, "ghost@example.com")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestTokenService(t *testing.T) {
	tokens := testTokenService()
	user := &models.User{ID: primitive.NewObjectID(), UserName: "alice", Email: "alice@example.com", Role: models.RoleAdmin}

	pair, err := tokens.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = tokens.ValidateToken(pair.AccessToken, TokenTypeRefresh)
	assert.Error(t, err, "access token must not validate with the refresh secret")

	claims, err = tokens.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.TokenID)

	expired := testTokenService()
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, err := expired.GenerateTokenPair(user)
	require.NoError(t, err)
	_, err = tokens.ValidateToken(old.RefreshToken, TokenTypeRefresh)
	assert.Error(t, err)
}

func TestPasswordValidator(t *testing.T) {
	pv := NewPasswordValidator()
	cases := map[string]error{
		"abc":          ErrPasswordTooShort,
		"qwerty":       ErrPasswordCommon,
		"aaaaaaaa":     ErrPasswordRepeating,
		" leading1":    ErrPasswordWhitespace,
		"good-pass-42": nil,
	}
	for pw, want := range cases {
		assert.Equal(t, want, pv.ValidatePassword(pw), pw)
	}
}
