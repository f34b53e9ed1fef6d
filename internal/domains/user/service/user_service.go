package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/jwt"
)

// bcrypt cost = 12: balance giữa security và performance
const bcryptCost = 12

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
	now        func() time.Time
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		now:        time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err, "name", "email", "password")
	}

	// 2. BUSINESS RULE: email must be unused
	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, model.NewUserExistsError()
	case !errors.Is(err, model.ErrUserNotFound):
		return nil, shared.NewInternalError(fmt.Errorf("check email exists: %w", err))
	}

	// 3. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	// 4. PERSIST
	now := s.now().UTC()
	u := &model.User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// lost the race against a concurrent register
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, model.NewUserExistsError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("create user: %w", err))
	}

	log.Info().Str("user_id", u.ID.Hex()).Msg("user registered")
	return s.issueToken(u)
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err, "email", "password")
	}

	// Không expose "email not found": same error as a wrong password
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("find user by email: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	return s.issueToken(u)
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, id primitive.ObjectID) (*model.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("get user: %w", err))
	}

	resp := u.ToResponse()
	return &resp, nil
}

func (s *userService) issueToken(u *model.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.jwtManager.GenerateAccessToken(u.ID.Hex())
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("generate access token: %w", err))
	}

	return &model.AuthResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
