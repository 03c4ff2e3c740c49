// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)

// resetCodeTTL is how long a password reset code stays valid
const resetCodeTTL = 15 * time.Minute

// Service handles user business logic
type Service struct {
	client          *store.Client
	config          *config.Config
	logger          *logrus.Logger
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	emailService    *email.EmailService
}

// NewService creates a new user service
func NewService(client *store.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		client:          client,
		config:          cfg,
		logger:          logger,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		emailService:    email.NewEmailService(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

// passwordReset is the Redis-free reset-code document kept in mongo
type passwordReset struct {
	Email     string    `bson:"email"`
	Code      string    `bson:"code"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}
	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	emailAddr := normalizeEmail(req.Email)

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.users().CountDocuments(queryCtx, bson.M{"email": emailAddr})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	u := User{
		Email:       emailAddr,
		Password:    hashedPassword,
		Name:        req.Name,
		Phone:       req.Phone,
		Role:        RoleUser,
		IsActive:    true,
		LastLoginAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.users().InsertOne(queryCtx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = result.InsertedID.(primitive.ObjectID)

	if err := s.emailService.SendWelcomeEmail(ctx, u.Email, u.Name); err != nil {
		s.logger.WithError(err).WithField("email", u.Email).Warn("Failed to send welcome email")
	}

	return s.issueTokens(&u)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var u User
	err := s.users().FindOne(queryCtx, bson.M{
		"email":    normalizeEmail(req.Email),
		"isActive": true,
	}).Decode(&u)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	_, err = s.users().UpdateOne(queryCtx,
		bson.M{"_id": u.ID},
		bson.M{"$set": bson.M{"lastLoginAt": now}})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to update last login")
	}
	u.LastLoginAt = &now

	return s.issueTokens(&u)
}

// RefreshToken generates new tokens from a refresh token
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	u, err := s.getActiveUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	response, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	if !s.config.JWT.RefreshTokenRotation {
		response.RefreshToken = refreshToken
	}
	return response, nil
}

// GetProfile gets a user profile by id
func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.getActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Sanitize()
	return u, nil
}

// UpdateProfile updates profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	updates := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.AvatarURL != nil {
		updates["avatarUrl"] = *req.AvatarURL
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	_, err = s.users().UpdateOne(queryCtx, bson.M{"_id": objectID}, bson.M{"$set": updates})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password before setting a new one
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.getActiveUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, u.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if err := s.passwordManager.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	_, err = s.users().UpdateOne(queryCtx,
		bson.M{"_id": u.ID},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// SendPasswordResetEmail issues a reset code and mails it. An unknown email
// is not an error, so the endpoint never leaks which accounts exist.
func (s *Service) SendPasswordResetEmail(ctx context.Context, emailAddr string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	emailAddr = normalizeEmail(emailAddr)

	var u User
	err := s.users().FindOne(queryCtx, bson.M{"email": emailAddr, "isActive": true}).Decode(&u)
	if err != nil {
		return nil
	}

	code, err := s.passwordManager.GenerateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	reset := passwordReset{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(resetCodeTTL),
	}
	_, err = s.client.Collection(store.CollectionPasswordResets).ReplaceOne(queryCtx,
		bson.M{"email": emailAddr},
		reset,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return s.emailService.SendPasswordResetEmail(ctx, u.Email, u.Name, code)
}

// ResetPassword sets a new password given a valid reset code
func (s *Service) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	emailAddr = normalizeEmail(emailAddr)

	var reset passwordReset
	err := s.client.Collection(store.CollectionPasswordResets).FindOne(queryCtx,
		bson.M{"email": emailAddr, "code": code}).Decode(&reset)
	if err != nil || time.Now().UTC().After(reset.ExpiresAt) {
		return ErrInvalidResetCode
	}

	if err := s.passwordManager.ValidatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.users().UpdateOne(queryCtx,
		bson.M{"email": emailAddr},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	_, _ = s.client.Collection(store.CollectionPasswordResets).DeleteOne(queryCtx, bson.M{"email": emailAddr})
	return nil
}

// GetUserByEmail finds a user by email
func (s *Service) GetUserByEmail(ctx context.Context, emailAddr string) (*User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var u User
	err := s.users().FindOne(queryCtx, bson.M{"email": normalizeEmail(emailAddr)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// issueTokens builds an AuthResponse for the user
func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.Hex(), u.Email, u.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.Hex(), u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	u.Sanitize()
	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

func (s *Service) getActiveUser(ctx context.Context, userID string) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var u User
	err = s.users().FindOne(queryCtx, bson.M{"_id": objectID, "isActive": true}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *Service) users() *mongo.Collection {
	return s.client.Collection(store.CollectionUsers)
}
