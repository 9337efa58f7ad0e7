package register_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreevms/subscription-tracker/internal/http/handlers/auth/register"
	"github.com/andreevms/subscription-tracker/internal/http/response"
)

type mockService struct {
	RegisterFunc func(ctx context.Context, email, username, rawPassword string) (string, error)
}

func (m *mockService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	return m.RegisterFunc(ctx, email, username, rawPassword)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(s string) slog.Handler           { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func doRequest(t *testing.T, service register.Service, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	register.New(makeLogger(), service).ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockService{
			RegisterFunc: func(_ context.Context, email, username, rawPassword string) (string, error) {
				require.Equal(t, "new@example.com", email)
				require.Equal(t, "newuser", username)
				require.Equal(t, "secret123", rawPassword)
				return "7d3f5a1e-0a44-4a05-b9cc-8a2f1a6e9d11", nil
			},
		}

		w := doRequest(t, service, map[string]string{
			"email":    "new@example.com",
			"username": "newuser",
			"password": "secret123",
		})

		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "7d3f5a1e-0a44-4a05-b9cc-8a2f1a6e9d11", data["uid"])
		assert.Equal(t, "newuser", data["username"])
	})

	t.Run("invalid json", func(t *testing.T) {
		service := &mockService{
			RegisterFunc: func(_ context.Context, _, _, _ string) (string, error) {
				t.Fatal("service should not be called for invalid json")
				return "", nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		register.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]string
			want string
		}{
			{
				name: "bad email",
				body: map[string]string{"email": "not-an-email", "username": "newuser", "password": "secret123"},
				want: "must be a valid email",
			},
			{
				name: "short username",
				body: map[string]string{"email": "new@example.com", "username": "abc", "password": "secret123"},
				want: "Username is too short",
			},
			{
				name: "short password",
				body: map[string]string{"email": "new@example.com", "username": "newuser", "password": "123"},
				want: "Password is too short",
			},
			{
				name: "missing fields",
				body: map[string]string{},
				want: "required field",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := &mockService{
					RegisterFunc: func(_ context.Context, _, _, _ string) (string, error) {
						t.Fatal("service should not be called for invalid request")
						return "", nil
					},
				}

				w := doRequest(t, service, tt.body)

				assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
				assert.Contains(t, w.Body.String(), tt.want)
			})
		}
	})

	t.Run("service error", func(t *testing.T) {
		service := &mockService{
			RegisterFunc: func(_ context.Context, _, _, _ string) (string, error) {
				return "", errors.New("duplicate email")
			},
		}

		w := doRequest(t, service, map[string]string{
			"email":    "new@example.com",
			"username": "newuser",
			"password": "secret123",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "failed to register user")
	})
}
