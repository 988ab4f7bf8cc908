package discount_test

import (
	"testing"

	"partnerdesk-backend/internal/discount"

	"github.com/stretchr/testify/assert"
)

func TestCompute_Tiers(t *testing.T) {
	cases := []struct {
		name     string
		quantity int64
		want     int
	}{
		{"zero", 0, 0},
		{"inside first tier", 4_500, 0},
		{"just below five percent", 9_999, 0},
		{"five percent lower bound", 10_000, 5},
		{"inside five percent", 12_000, 5},
		{"just below ten percent", 49_999, 5},
		{"ten percent lower bound", 50_000, 10},
		{"inside ten percent", 52_000, 10},
		{"just below fifteen percent", 299_999, 10},
		{"fifteen percent lower bound", 300_000, 15},
		{"far beyond last threshold", 10_000_000, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, discount.Compute(tc.quantity))
		})
	}
}
