package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/placedir/places-server/internal/testutil"
)

// MockTokenParser mocks the TokenParser interface
type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) Parse(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestAuthenticate_Handle(t *testing.T) {
	t.Run("valid token injects user id", func(t *testing.T) {
		userID := uuid.New()
		parser := new(MockTokenParser)
		parser.On("Parse", "good-token").Return(userID, nil)

		var gotID uuid.UUID
		var gotOK bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, gotOK = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		m := NewAuthenticate(parser, testutil.MakeNoopLogger())
		req := httptest.NewRequest(http.MethodPost, "/api/places", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotOK)
		assert.Equal(t, userID, gotID)
	})

	t.Run("missing header is forbidden", func(t *testing.T) {
		parser := new(MockTokenParser)

		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("next handler should not run")
		})

		m := NewAuthenticate(parser, testutil.MakeNoopLogger())
		req := httptest.NewRequest(http.MethodPost, "/api/places", nil)
		rr := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "authentication failed, please try again", body["message"])
		parser.AssertNotCalled(t, "Parse", mock.Anything)
	})

	t.Run("malformed header is forbidden", func(t *testing.T) {
		parser := new(MockTokenParser)

		m := NewAuthenticate(parser, testutil.MakeNoopLogger())
		req := httptest.NewRequest(http.MethodPost, "/api/places", nil)
		req.Header.Set("Authorization", "Token abcdef")
		rr := httptest.NewRecorder()

		m.Handle(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		parser.AssertNotCalled(t, "Parse", mock.Anything)
	})

	t.Run("invalid token is an internal error", func(t *testing.T) {
		parser := new(MockTokenParser)
		parser.On("Parse", "bad-token").Return(uuid.Nil, errors.New("signature invalid"))

		m := NewAuthenticate(parser, testutil.MakeNoopLogger())
		req := httptest.NewRequest(http.MethodDelete, "/api/places/abc", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rr := httptest.NewRecorder()

		m.Handle(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "authentication failed, please try again", body["message"])
	})

	t.Run("preflight passes through without identity", func(t *testing.T) {
		parser := new(MockTokenParser)

		var gotOK bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})

		m := NewAuthenticate(parser, testutil.MakeNoopLogger())
		req := httptest.NewRequest(http.MethodOptions, "/api/places", nil)
		rr := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.False(t, gotOK)
		parser.AssertNotCalled(t, "Parse", mock.Anything)
	})
}
