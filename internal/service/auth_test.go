package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/model"
	"github.com/placedir/places-server/internal/testutil"
)

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Parse(tokenString string) (uuid.UUID, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newAuthService(userStore *MockUserStore, tokenManager *MockTokenManager) *Auth {
	return NewAuth(userStore, tokenManager, testutil.MakeNoopLogger())
}

func TestAuthService_Signup(t *testing.T) {
	params := model.SignupParams{
		Name:     "Max Schwarz",
		Email:    "max@example.com",
		Password: "supersecret",
		ImageKey: "avatar.png",
	}

	t.Run("success returns session with token", func(t *testing.T) {
		userStore := new(MockUserStore)
		tokenManager := new(MockTokenManager)

		userStore.On("GetByEmail", mock.Anything, params.Email).Return(model.User{}, model.ErrNotFound)
		created := model.User{ID: uuid.New(), Name: params.Name, Email: params.Email}
		userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			if u.Name != params.Name || u.Email != params.Email || u.ImageKey != params.ImageKey {
				return false
			}
			return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(params.Password)) == nil
		})).Return(created, nil)
		tokenManager.On("Generate", created.ID).Return("signed-token", nil)

		s := newAuthService(userStore, tokenManager)
		session, err := s.Signup(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, params.Email, session.Email)
		assert.Equal(t, "signed-token", session.Token)
		assert.Equal(t, created.ID, session.UserID)
		userStore.AssertExpectations(t)
	})

	t.Run("existing email fails validation", func(t *testing.T) {
		userStore := new(MockUserStore)
		tokenManager := new(MockTokenManager)

		userStore.On("GetByEmail", mock.Anything, params.Email).Return(model.User{ID: uuid.New()}, nil)

		s := newAuthService(userStore, tokenManager)
		_, err := s.Signup(context.Background(), params)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent signup race fails validation", func(t *testing.T) {
		userStore := new(MockUserStore)
		tokenManager := new(MockTokenManager)

		userStore.On("GetByEmail", mock.Anything, params.Email).Return(model.User{}, model.ErrNotFound)
		userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrAlreadyExists)

		s := newAuthService(userStore, tokenManager)
		_, err := s.Signup(context.Background(), params)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	})

	t.Run("invalid inputs fail validation", func(t *testing.T) {
		tests := []struct {
			name   string
			params model.SignupParams
		}{
			{"empty name", model.SignupParams{Name: "", Email: "a@b.com", Password: "supersecret"}},
			{"bad email", model.SignupParams{Name: "Max", Email: "not-an-email", Password: "supersecret"}},
			{"short password", model.SignupParams{Name: "Max", Email: "a@b.com", Password: "short"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				userStore := new(MockUserStore)
				s := newAuthService(userStore, new(MockTokenManager))
				_, err := s.Signup(context.Background(), tt.params)

				var appErr *apperror.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
				userStore.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{ID: userID, Email: "max@example.com", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		userStore := new(MockUserStore)
		tokenManager := new(MockTokenManager)

		userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		tokenManager.On("Generate", userID).Return("signed-token", nil)

		s := newAuthService(userStore, tokenManager)
		session, err := s.Login(context.Background(), user.Email, "supersecret")
		require.NoError(t, err)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, "signed-token", session.Token)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		userStore := new(MockUserStore)

		userStore.On("GetByEmail", mock.Anything, "ghost@example.com").Return(model.User{}, model.ErrNotFound)

		s := newAuthService(userStore, new(MockTokenManager))
		_, err := s.Login(context.Background(), "ghost@example.com", "supersecret")

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		userStore := new(MockUserStore)
		tokenManager := new(MockTokenManager)

		userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		s := newAuthService(userStore, tokenManager)
		_, err := s.Login(context.Background(), user.Email, "wrongpass")

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		tokenManager.AssertNotCalled(t, "Generate", mock.Anything)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		userStore := new(MockUserStore)

		userStore.On("GetByEmail", mock.Anything, user.Email).Return(model.User{}, errors.New("connection reset"))

		s := newAuthService(userStore, new(MockTokenManager))
		_, err := s.Login(context.Background(), user.Email, "supersecret")
		require.Error(t, err)

		var appErr *apperror.Error
		assert.False(t, errors.As(err, &appErr))
	})
}

func TestAuthService_ListUsers(t *testing.T) {
	userStore := new(MockUserStore)
	users := []model.User{{ID: uuid.New(), Name: "A"}, {ID: uuid.New(), Name: "B"}}
	userStore.On("List", mock.Anything).Return(users, nil)

	s := newAuthService(userStore, new(MockTokenManager))
	got, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, users, got)
}
