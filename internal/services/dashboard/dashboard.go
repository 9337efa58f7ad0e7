// Package services собирает сводку дашборда по подпискам пользователя.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/andreevms/subscription-tracker/internal/models"
	"github.com/andreevms/subscription-tracker/internal/valuation"
)

// SubscriptionLister отдаёт полный снимок подписок пользователя.
type SubscriptionLister interface {
	ListUserSubscriptions(ctx context.Context, username string) ([]models.Subscription, error)
}

// DashboardService на каждый запрос заново вычисляет агрегаты по свежему
// снимку из хранилища. Результаты не кешируются и нигде не сохраняются.
type DashboardService struct {
	repo SubscriptionLister
	log  *slog.Logger
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(repo SubscriptionLister, log *slog.Logger) *DashboardService {
	return &DashboardService{
		repo: repo,
		log:  log,
	}
}

// Summary возвращает сводку дашборда пользователя на дату today.
// Дата передаётся явно, чтобы агрегация оставалась детерминированной.
func (s *DashboardService) Summary(ctx context.Context, username string, today time.Time) (valuation.Summary, error) {
	subs, err := s.repo.ListUserSubscriptions(ctx, username)
	if err != nil {
		return valuation.Summary{}, err
	}
	s.log.Info("building dashboard summary",
		slog.String("username", username),
		slog.Int("subscriptions", len(subs)))
	return valuation.BuildSummary(subs, today), nil
}
