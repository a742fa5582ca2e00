package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxReferralCodeAttempts = 20

type ITokenService interface {
	GenerateTokenPair(user *models.User) (*TokenPair, error)
	ValidateToken(tokenStr, expectedType string) (*Claims, error)
}

type RegisterRequest struct {
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        int64  `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	User         *models.User `json:"user,omitempty"`
	Role         string       `json:"role,omitempty"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type AuthService struct {
	users     repository.UserRepo
	tokens    ITokenService
	passwords *PasswordValidator
	metrics   *aws_pkg.MetricsClient
	newCode   func() string
}

func NewAuthService(users repository.UserRepo, tokens ITokenService, metrics *aws_pkg.MetricsClient) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: NewPasswordValidator(),
		metrics:   metrics,
		newCode:   randomReferralCode,
	}
}

// randomReferralCode returns a four digit code in [1000, 9999].
func randomReferralCode() string {
	return strconv.Itoa(1000 + rand.IntN(9000))
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.ReferralCode = strings.TrimSpace(req.ReferralCode)

	if req.UserName == "" || req.Email == "" || req.Password == "" || req.Phone == 0 {
		return nil, apperrors.BadRequest("All fields are required")
	}
	if err := s.passwords.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	exists, err := s.users.ExistsByIdentity(ctx, req.UserName, req.Email, req.Phone)
	if err != nil {
		return nil, apperrors.Internal("failed to check existing users", err)
	}
	if exists {
		return nil, apperrors.Conflict("User with email or userName or phone number already exists")
	}

	var referrer *models.User
	if req.ReferralCode != "" {
		referrer, err = s.users.FindByReferralCode(ctx, req.ReferralCode)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("invalid referralCode")
		}
		if err != nil {
			return nil, apperrors.Internal("failed to look up referral code", err)
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	code, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, apperrors.Internal("something went wrong while registering user", err)
	}

	user := &models.User{
		UserName:     req.UserName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     hash,
		Role:         models.RoleUser,
		ReferralCode: code,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("User with email or userName or phone number already exists")
		}
		return nil, apperrors.Internal("something went wrong while registering user", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if referrer != nil {
		if err := s.users.AddReferredUser(ctx, referrer.ID, user.ID); err != nil {
			zap.L().Warn("failed to link referred user",
				zap.Error(err),
				zap.String("referrer_id", referrer.ID.Hex()),
				zap.String("user_id", user.ID.Hex()),
			)
		}
	}

	_ = s.metrics.RecordCount(ctx, aws_pkg.MetricUsersRegistered, nil)
	zap.L().Info("user registered", zap.String("user_id", user.ID.Hex()))

	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *AuthService) uniqueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < maxReferralCodeAttempts; i++ {
		code := s.newCode()
		taken, err := s.users.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free referral code after %d attempts", maxReferralCodeAttempts)
}

// Login issues a fresh pair. The stored refresh token is overwritten, so any
// other session loses its ability to refresh.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.BadRequest("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User does not exists")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	if !CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Role: user.Role, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh rotates the pair. The presented token must be the one on record.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := s.tokens.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, apperrors.ErrRefreshReused
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal("failed to log out", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.BadRequest("oldPassword and newPassword are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("you are not authorized")
	}
	if err != nil {
		return apperrors.Internal("failed to load user", err)
	}
	if !CheckPassword(user.Password, oldPassword) {
		return apperrors.BadRequest("Invalid old password")
	}
	if err := s.passwords.ValidatePassword(newPassword); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperrors.Internal("failed to change password", err)
	}
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("you are not authorized")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

func (s *AuthService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list users", err)
	}
	if len(users) == 0 {
		return nil, apperrors.BadRequest("No users found")
	}
	return users, nil
}

func (s *AuthService) GetReferredUsers(ctx context.Context, userID primitive.ObjectID) ([]models.ReferredUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("You are not authorized")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	referred, err := s.users.FindReferred(ctx, user.ReferredUsers)
	if err != nil {
		return nil, apperrors.Internal("failed to load referred users", err)
	}
	return referred, nil
}

// PromoteAdmin grants the admin role. Only reachable from the CLI.
func (s *AuthService) PromoteAdmin(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.BadRequest("email is required")
	}
	err := s.users.SetRoleByEmail(ctx, email, models.RoleAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User does not exists")
	}
	return err
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, apperrors.Internal("Something went wrong while generating refresh and access token", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperrors.Internal("Something went wrong while generating refresh and access token", err)
	}
	user.RefreshToken = pair.RefreshToken
	return pair, nil
}
