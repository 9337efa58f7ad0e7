package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreevms/subscription-tracker/internal/models"
)

// UpcomingWindowDays — горизонт напоминаний: подписки со списанием в ближайшие
// две недели (включительно) попадают в блок «предстоящие платежи».
const UpcomingWindowDays = 14

var monthsPerYear = decimal.NewFromInt(12)

// ScoredSubscription — подписка вместе с её оценкой полезности для отображения.
type ScoredSubscription struct {
	models.Subscription
	ValueScore int `json:"value_score"`
}

// Summary содержит агрегированные показатели дашборда.
// Все суммы приведены к месячному эквиваленту.
type Summary struct {
	Subscriptions    []ScoredSubscription       `json:"subscriptions"`     // Все подписки с оценками
	MonthlyTotal     decimal.Decimal            `json:"monthly_total"`     // Суммарные месячные траты
	CategorySpending map[string]decimal.Decimal `json:"category_spending"` // Траты по категориям
	Recommendations  []ScoredSubscription       `json:"recommendations"`   // Подписки с низкой оценкой
	PotentialSavings decimal.Decimal            `json:"potential_savings"` // Экономия при отмене рекомендаций
	Upcoming         []models.Subscription      `json:"upcoming"`          // Списания в ближайшие 14 дней
}

// MonthlyCost приводит стоимость подписки к месячному эквиваленту:
// месячная стоимость берётся как есть, любая другая делится на 12.
// Ветка "иначе" повторяет правило нормализации Score: нераспознанная
// периодичность трактуется как годовая, а не ломает подсчёт.
func MonthlyCost(sub models.Subscription) decimal.Decimal {
	if sub.BillingFrequency == models.BillingMonthly {
		return sub.Cost
	}
	return sub.Cost.Div(monthsPerYear)
}

// BuildSummary собирает сводку дашборда по списку подписок пользователя
// на заданную дату. Функция детерминирована: одинаковый вход даёт одинаковый
// результат, входной срез не изменяется.
func BuildSummary(subs []models.Subscription, today time.Time) Summary {
	summary := Summary{
		Subscriptions:    make([]ScoredSubscription, 0, len(subs)),
		MonthlyTotal:     decimal.Zero,
		CategorySpending: make(map[string]decimal.Decimal),
		Recommendations:  []ScoredSubscription{},
		PotentialSavings: decimal.Zero,
		Upcoming:         []models.Subscription{},
	}

	day := truncateToDay(today)
	windowEnd := day.AddDate(0, 0, UpcomingWindowDays)

	for _, sub := range subs {
		scored := ScoredSubscription{
			Subscription: sub,
			ValueScore:   Score(sub.Cost, sub.BillingFrequency, sub.UsageFrequency),
		}
		summary.Subscriptions = append(summary.Subscriptions, scored)

		monthly := MonthlyCost(sub)
		summary.MonthlyTotal = summary.MonthlyTotal.Add(monthly)
		summary.CategorySpending[sub.Category] = summary.CategorySpending[sub.Category].Add(monthly)

		if scored.ValueScore < LowValueThreshold {
			summary.Recommendations = append(summary.Recommendations, scored)
			summary.PotentialSavings = summary.PotentialSavings.Add(monthly)
		}

		billing := truncateToDay(sub.NextBillingDate)
		if !billing.Before(day) && !billing.After(windowEnd) {
			summary.Upcoming = append(summary.Upcoming, sub)
		}
	}

	return summary
}

// truncateToDay отбрасывает время, оставляя календарную дату в UTC.
// Окно предстоящих платежей сравнивается с точностью до дня.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
