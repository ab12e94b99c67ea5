package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountKind определяет политику расчёта стоимости корзины.
type DiscountKind string

const (
	// DiscountFlatRate - скидка применяется ко всей корзине.
	DiscountFlatRate DiscountKind = "flat"
	// DiscountBulk - скидка применяется к позициям, где количество достигло порога.
	DiscountBulk DiscountKind = "bulk"
)

// Valid проверяет, что тип скидки поддерживается.
func (k DiscountKind) Valid() bool {
	return k == DiscountFlatRate || k == DiscountBulk
}

// DiscountPolicy - параметры стратегии, достаточные для её восстановления из хранилища.
type DiscountPolicy struct {
	Kind      DiscountKind
	Rate      decimal.Decimal
	Threshold int
}

// DiscountStrategy считает итоговую стоимость корзины. Реализации не имеют состояния
// помимо параметров, заданных при создании.
type DiscountStrategy interface {
	Cost(lines []Line) decimal.Decimal
	Policy() DiscountPolicy
}

var hundred = decimal.NewFromInt(100)

// RateFromPercentage переводит процент скидки в множитель: 20 → 0.8.
func RateFromPercentage(percentage int) (decimal.Decimal, error) {
	if percentage < 0 || percentage > 100 {
		return decimal.Zero, fmt.Errorf("%w: discount percentage %d is outside [0,100]", ErrInvalidArgument, percentage)
	}
	return decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(percentage)).Div(hundred)), nil
}

// NewDiscount создаёт стратегию по типу и проценту скидки.
func NewDiscount(kind DiscountKind, percentage, threshold int) (DiscountStrategy, error) {
	rate, err := RateFromPercentage(percentage)
	if err != nil {
		return nil, err
	}
	return DiscountFromPolicy(DiscountPolicy{Kind: kind, Rate: rate, Threshold: threshold})
}

// DiscountFromPolicy восстанавливает стратегию из сохранённых параметров.
func DiscountFromPolicy(policy DiscountPolicy) (DiscountStrategy, error) {
	switch policy.Kind {
	case DiscountFlatRate:
		return NewFlatRateDiscount(policy.Rate), nil
	case DiscountBulk:
		return NewBulkDiscount(policy.Rate, policy.Threshold), nil
	default:
		return nil, fmt.Errorf("%w: unknown discount kind %q", ErrInvalidArgument, policy.Kind)
	}
}

// FlatRateDiscount умножает стоимость всей корзины на rate.
type FlatRateDiscount struct {
	rate decimal.Decimal
}

// NewFlatRateDiscount принимает уже пересчитанный множитель (0.8 для скидки 20%).
func NewFlatRateDiscount(rate decimal.Decimal) FlatRateDiscount {
	return FlatRateDiscount{rate: rate}
}

// Cost считает Σ qty × cost × rate.
func (d FlatRateDiscount) Cost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal().Mul(d.rate))
	}
	return total
}

// Policy возвращает параметры стратегии.
func (d FlatRateDiscount) Policy() DiscountPolicy {
	return DiscountPolicy{Kind: DiscountFlatRate, Rate: d.rate}
}

// BulkDiscount применяет rate только к позициям с qty >= threshold.
type BulkDiscount struct {
	rate      decimal.Decimal
	threshold int
}

// NewBulkDiscount принимает множитель и порог количества.
func NewBulkDiscount(rate decimal.Decimal, threshold int) BulkDiscount {
	return BulkDiscount{rate: rate, threshold: threshold}
}

// Cost суммирует подытоги, дисконтируя позиции, достигшие порога.
func (d BulkDiscount) Cost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		subtotal := line.Subtotal()
		if line.Qty >= d.threshold {
			subtotal = subtotal.Mul(d.rate)
		}
		total = total.Add(subtotal)
	}
	return total
}

// Policy возвращает параметры стратегии.
func (d BulkDiscount) Policy() DiscountPolicy {
	return DiscountPolicy{Kind: DiscountBulk, Rate: d.rate, Threshold: d.threshold}
}

var (
	_ DiscountStrategy = FlatRateDiscount{}
	_ DiscountStrategy = BulkDiscount{}
)
