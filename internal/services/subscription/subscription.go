// Package services содержит бизнес-логику для управления подписками и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/andreevms/subscription-tracker/internal/models"
)

// dateLayout — формат дат во входных запросах.
const dateLayout = "2006-01-02"

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку пользователя по ID.
	ReadSubscription(ctx context.Context, id int, username string) (*models.Subscription, error)
	// UpdateSubscription обновляет данные подписки пользователя по ID.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int, username string) (int, error)
	// RemoveSubscription удаляет подписку пользователя по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int, username string) (int, error)
	// ListSubscriptions возвращает список подписок пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
// Кешируются только отдельные записи: сводка дашборда пересчитывается на каждый запрос.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// convert превращает валидированный запрос в доменную модель подписки.
// Стоимость должна быть строго положительной, дата — в формате 2006-01-02.
func convert(req models.DummySubscription, username string) (models.Subscription, error) {
	if !req.Cost.IsPositive() {
		return models.Subscription{}, fmt.Errorf("cost must be greater than zero")
	}
	nextBillingDate, err := time.Parse(dateLayout, req.NextBillingDate)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("invalid next billing date: %w", err)
	}
	return models.Subscription{
		Name:             req.Name,
		Cost:             req.Cost,
		BillingFrequency: req.BillingFrequency,
		NextBillingDate:  nextBillingDate,
		UsageFrequency:   req.UsageFrequency,
		Category:         req.Category,
		Username:         username,
	}, nil
}

// Create создает новую подписку для пользователя, кеширует её и возвращает ID.
func (s *SubscriptionService) Create(ctx context.Context, username, userUID string, req models.DummySubscription) (int, error) {
	sub, err := convert(req, username)
	if err != nil {
		return 0, err
	}
	sub.UserUID = userUID

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))

	sub.ID = id
	cacheKey := cacheKeyFor(id)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id int, username string) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := cacheKeyFor(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	// Кеш отдаём только владельцу, иначе идём в хранилище.
	if found && result != nil && result.Username == username {
		return result, nil
	}

	result, err = s.repo.ReadSubscription(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет подписку пользователя и обновляет кеш.
func (s *SubscriptionService) Update(ctx context.Context, req models.DummySubscription, id int, username string) (int, error) {
	sub, err := convert(req, username)
	if err != nil {
		return 0, err
	}

	res, err := s.repo.UpdateSubscription(ctx, sub, id, username)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated subscription in storage", slog.Int("id", id))

	sub.ID = id
	cacheKey := cacheKeyFor(id)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет подписку пользователя по ID и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, id int, username string) (int, error) {
	cacheKey := cacheKeyFor(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id, username)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List возвращает список подписок пользователя с пагинацией.
func (s *SubscriptionService) List(ctx context.Context, username string, limit, offset int) ([]models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, username, limit, offset)
}

func cacheKeyFor(id int) string {
	return fmt.Sprintf("subscription:%d", id)
}
