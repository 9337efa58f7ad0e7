package update_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreevms/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/andreevms/subscription-tracker/internal/http/middlewarectx"
	"github.com/andreevms/subscription-tracker/internal/http/response"
	"github.com/andreevms/subscription-tracker/internal/models"
)

type mockService struct {
	UpdateFunc func(ctx context.Context, req models.DummySubscription, id int, username string) (int, error)
}

func (m *mockService) Update(ctx context.Context, req models.DummySubscription, id int, username string) (int, error) {
	return m.UpdateFunc(ctx, req, id, username)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(s string) slog.Handler           { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func validBody() map[string]any {
	return map[string]any{
		"name":              "Netflix Premium",
		"cost":              "19.99",
		"billing_frequency": "monthly",
		"next_billing_date": "2026-09-15",
		"usage_frequency":   "daily",
		"category":          "Entertainment",
	}
}

func newRequest(t *testing.T, id string, body any, withUser bool) *http.Request {
	t.Helper()

	var raw []byte
	switch b := body.(type) {
	case []byte:
		raw = b
	default:
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+id, bytes.NewReader(raw))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if withUser {
		ctx = context.WithValue(ctx, middlewarectx.User, "testuser")
	}
	return req.WithContext(ctx)
}

func TestUpdateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, req models.DummySubscription, id int, username string) (int, error) {
				require.Equal(t, 7, id)
				require.Equal(t, "testuser", username)
				require.Equal(t, "Netflix Premium", req.Name)
				require.Equal(t, models.UsageDaily, req.UsageFrequency)
				return 1, nil
			},
		}

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "7", validBody(), true))

		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, float64(1), resp.Data.(map[string]any)["updated_count"])
	})

	t.Run("invalid id", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, _ models.DummySubscription, _ int, _ string) (int, error) {
				t.Fatal("service should not be called for invalid id")
				return 0, nil
			},
		}

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "abc", validBody(), true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid subscription id")
	})

	t.Run("invalid json", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, _ models.DummySubscription, _ int, _ string) (int, error) {
				t.Fatal("service should not be called for invalid json")
				return 0, nil
			},
		}

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "7", []byte("{not json"), true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
	})

	t.Run("validation error", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, _ models.DummySubscription, _ int, _ string) (int, error) {
				t.Fatal("service should not be called for invalid request")
				return 0, nil
			},
		}

		body := validBody()
		body["billing_frequency"] = "weekly"

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "7", body, true))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "must be one of")
	})

	t.Run("no username in context", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, _ models.DummySubscription, _ int, _ string) (int, error) {
				t.Fatal("service should not be called without username")
				return 0, nil
			},
		}

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "7", validBody(), false))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, _ models.DummySubscription, _ int, _ string) (int, error) {
				return 0, nil
			},
		}

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "99", validBody(), true))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "subscription not found")
	})

	t.Run("service error", func(t *testing.T) {
		service := &mockService{
			UpdateFunc: func(_ context.Context, _ models.DummySubscription, _ int, _ string) (int, error) {
				return 0, errors.New("storage unavailable")
			},
		}

		w := httptest.NewRecorder()
		update.New(makeLogger(), service).ServeHTTP(w, newRequest(t, "7", validBody(), true))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "could not update subscription")
	})
}
