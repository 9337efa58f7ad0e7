// Package models содержит доменные структуры, описывающие подписку,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Значения поля BillingFrequency. Любое другое значение при нормализации
// стоимости трактуется как годовое (делители 365 и 12).
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Значения поля UsageFrequency, сообщаемые самим пользователем.
const (
	UsageDaily      = "daily"
	UsageWeekly     = "weekly"
	UsageMonthly    = "monthly"
	UsageNotTracked = "not_tracked"
)

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
// Стоимость хранится как decimal, чтобы избежать ошибок округления
// при нормализации к месячному и дневному эквиваленту.
type Subscription struct {
	ID               int             `json:"id"`                 // Идентификатор записи
	Name             string          `json:"name"`               // Название сервиса подписки
	Cost             decimal.Decimal `json:"cost"`               // Стоимость за один платёжный цикл
	BillingFrequency string          `json:"billing_frequency"`  // monthly или yearly
	NextBillingDate  time.Time       `json:"next_billing_date"`  // Дата следующего списания
	UsageFrequency   string          `json:"usage_frequency"`    // Частота использования
	Category         string          `json:"category"`           // Категория расходов
	Username         string          `json:"username,omitempty"` // Имя пользователя-владельца
	UserUID          string          `json:"-"`                  // UID пользователя-владельца
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Дата приходит в виде строки, чтобы её можно было валидировать и парсить вручную.
type DummySubscription struct {
	Name             string          `json:"name" validate:"required"`                                                              // Название сервиса
	Cost             decimal.Decimal `json:"cost" validate:"required"`                                                              // Стоимость (>0, проверяется сервисом)
	BillingFrequency string          `json:"billing_frequency" validate:"required,oneof=monthly yearly"`                            // Периодичность списаний
	NextBillingDate  string          `json:"next_billing_date" validate:"required"`                                                 // Дата следующего списания в формате 2006-01-02
	UsageFrequency   string          `json:"usage_frequency" validate:"required,oneof=daily weekly monthly not_tracked"`            // Частота использования
	Category         string          `json:"category" validate:"required,oneof=Entertainment Productivity Fitness Education Other"` // Категория расходов
}
