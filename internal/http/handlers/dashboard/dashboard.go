// Package dashboard реализует HTTP-обработчик сводки по подпискам пользователя.
//
// Сводка пересчитывается на каждый запрос по свежему снимку подписок:
// месячный эквивалент трат, разбивка по категориям, рекомендации к отмене
// с потенциальной экономией и список списаний в ближайшие две недели.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/andreevms/subscription-tracker/internal/http/middlewarectx"
	"github.com/andreevms/subscription-tracker/internal/http/response"
	"github.com/andreevms/subscription-tracker/internal/lib/sl"
	"github.com/andreevms/subscription-tracker/internal/valuation"
)

// Service описывает интерфейс бизнес-логики сборки сводки.
type Service interface {
	Summary(ctx context.Context, username string, today time.Time) (valuation.Summary, error)
}

// Handler обрабатывает HTTP-запросы сводки дашборда.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time // Источник текущей даты, подменяется в тестах
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Сводка дашборда
// @Description Возвращает агрегированные показатели по подпискам текущего пользователя: месячные траты, разбивку по категориям, рекомендации к отмене, потенциальную экономию и предстоящие списания.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Сводка дашборда"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summary, err := h.service.Summary(r.Context(), username, h.now().UTC())
	if err != nil {
		log.Error("failed to build summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard summary"))
		return
	}

	log.Info("dashboard summary built",
		slog.Int("subscriptions", len(summary.Subscriptions)),
		slog.Int("recommendations", len(summary.Recommendations)))
	render.JSON(w, r, response.StatusOKWithData(summary))
}
