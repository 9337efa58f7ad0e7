// Package valuation реализует оценку полезности подписок и сборку
// сводки для дашборда. Все функции пакета чистые: принимают данные
// и текущую дату явно, не обращаются к хранилищу и ничего не мутируют.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/andreevms/subscription-tracker/internal/models"
)

// Настроечные константы оценки. Подобраны эвристически, а не выведены из данных:
// подписка дороже ExpensivePerDay за день обнуляет ценовую составляющую,
// частота использования весит больше цены (60/40), потому что неиспользуемая
// подписка ценится ниже дорогой, но используемой.
const (
	daysPerMonth = 30
	daysPerYear  = 365

	// ExpensivePerDay — дневная стоимость, при которой ценовая составляющая равна нулю.
	ExpensivePerDay = 2

	// Баллы за частоту использования.
	UsageScoreDaily      = 100
	UsageScoreWeekly     = 70
	UsageScoreMonthly    = 30
	UsageScoreNotTracked = 10

	// LowValueThreshold — оценка, ниже которой подписка попадает в рекомендации к отмене.
	LowValueThreshold = 40
)

var (
	usageWeight = decimal.RequireFromString("0.6")
	costWeight  = decimal.RequireFromString("0.4")
	hundred     = decimal.NewFromInt(100)
)

// Score вычисляет оценку полезности подписки в диапазоне [0, 100].
// Чем выше оценка, тем лучше соотношение использования и цены.
//
// Стоимость нормализуется к дневной: делитель 30 для billingFrequency == "monthly",
// иначе 365. Ветка "иначе" покрывает и "yearly", и любое нераспознанное значение —
// это поведение используется и сохраняется намеренно.
// Итог усекается до целого (не округляется) и ограничивается диапазоном [0, 100].
func Score(cost decimal.Decimal, billingFrequency, usageFrequency string) int {
	divisor := decimal.NewFromInt(daysPerYear)
	if billingFrequency == models.BillingMonthly {
		divisor = decimal.NewFromInt(daysPerMonth)
	}
	costPerDay := cost.Div(divisor)

	costScore := hundred.Sub(costPerDay.Div(decimal.NewFromInt(ExpensivePerDay)).Mul(hundred))
	if costScore.IsNegative() {
		costScore = decimal.Zero
	}

	usageScore := decimal.NewFromInt(usageScoreFor(usageFrequency))

	final := usageScore.Mul(usageWeight).Add(costScore.Mul(costWeight)).IntPart()
	if final < 0 {
		return 0
	}
	if final > 100 {
		return 100
	}
	return int(final)
}

// usageScoreFor переводит частоту использования в баллы.
// Всё, что не daily/weekly/monthly (включая not_tracked), получает небольшой базовый балл.
func usageScoreFor(usageFrequency string) int64 {
	switch usageFrequency {
	case models.UsageDaily:
		return UsageScoreDaily
	case models.UsageWeekly:
		return UsageScoreWeekly
	case models.UsageMonthly:
		return UsageScoreMonthly
	default:
		return UsageScoreNotTracked
	}
}
