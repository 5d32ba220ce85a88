package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/logger"
	"github.com/placedir/places-server/internal/model"
)

const (
	bcryptCost        = 12
	minPasswordLength = 6
)

// Session is the result of a successful signup or login.
type Session struct {
	UserID uuid.UUID
	Email  string
	Token  string
}

type Auth struct {
	userStore    model.UserStore
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuth(userStore model.UserStore, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

func (a *Auth) Signup(ctx context.Context, params model.SignupParams) (Session, error) {
	a.logger.Debug("Auth service: starting user registration", "email", params.Email)

	if err := validateSignup(params); err != nil {
		return Session{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", params.Email)
		return Session{}, apperror.Validation("user exists already, please login instead")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		ImageKey:     params.ImageKey,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		// Lost the race with a concurrent signup for the same email.
		if errors.Is(err, model.ErrAlreadyExists) {
			return Session{}, apperror.Validation("user exists already, please login instead")
		}
		a.logger.Error("Auth service: failed to create user", "email", params.Email, "error", err.Error())
		return Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := a.tokenManager.Generate(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate token: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return Session{UserID: user.ID, Email: user.Email, Token: tokenString}, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	a.logger.Debug("Auth service: starting user login", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return Session{}, apperror.Unauthorized("invalid credentials, could not log you in")
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return Session{}, apperror.Unauthorized("invalid credentials, could not log you in")
	}

	tokenString, err := a.tokenManager.Generate(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate token: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return Session{UserID: user.ID, Email: user.Email, Token: tokenString}, nil
}

func (a *Auth) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func validateSignup(params model.SignupParams) error {
	if params.Name == "" {
		return apperror.Validation("invalid inputs passed, please check your data")
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return apperror.Validation("invalid inputs passed, please check your data")
	}
	if len(params.Password) < minPasswordLength {
		return apperror.Validation("invalid inputs passed, please check your data")
	}
	return nil
}
