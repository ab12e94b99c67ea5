package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(name, cost string) domain.Product {
	return domain.NewProduct(name, dec(cost), domain.ProductData{
		Manufacturing: []float64{1, 2, 3, 4},
	}, nil)
}

func TestRateFromPercentage(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{pct: 0, want: "1"},
		{pct: 20, want: "0.8"},
		{pct: 55, want: "0.45"},
		{pct: 100, want: "0"},
	}
	for _, tc := range cases {
		rate, err := domain.RateFromPercentage(tc.pct)
		require.NoError(t, err)
		require.True(t, rate.Equal(dec(tc.want)), "pct %d: got %s want %s", tc.pct, rate, tc.want)
	}

	for _, pct := range []int{-1, 101} {
		if _, err := domain.RateFromPercentage(pct); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("pct %d: expected ErrInvalidArgument, got %v", pct, err)
		}
	}
}

func TestNewDiscount_UnknownKind(t *testing.T) {
	_, err := domain.NewDiscount("loyalty", 10, 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFlatRateDiscount_Cost(t *testing.T) {
	lines := []domain.Line{
		{Product: product("Brawndo", "10.00"), Qty: 3},
		{Product: product("Electrolytes", "2.50"), Qty: 4},
	}
	discount := domain.NewFlatRateDiscount(dec("0.8"))

	// (3×10 + 4×2.5) × 0.8
	require.True(t, discount.Cost(lines).Equal(dec("32")), "got %s", discount.Cost(lines))
	require.True(t, discount.Cost(nil).IsZero())
}

func TestBulkDiscount_Cost(t *testing.T) {
	lines := []domain.Line{
		{Product: product("Brawndo", "2.00"), Qty: 5},
		{Product: product("Electrolytes", "3.00"), Qty: 4},
	}
	discount := domain.NewBulkDiscount(dec("0.8"), 5)

	// 5×2×0.8 + 4×3
	require.True(t, discount.Cost(lines).Equal(dec("20")), "got %s", discount.Cost(lines))
}

func TestDiscountFromPolicy_RoundTrip(t *testing.T) {
	original, err := domain.NewDiscount(domain.DiscountBulk, 25, 10)
	require.NoError(t, err)

	restored, err := domain.DiscountFromPolicy(original.Policy())
	require.NoError(t, err)

	policy := restored.Policy()
	require.Equal(t, domain.DiscountBulk, policy.Kind)
	require.Equal(t, 10, policy.Threshold)
	require.True(t, policy.Rate.Equal(dec("0.75")))
}
