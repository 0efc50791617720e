package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monuchauhan/nios-elearning/internal/catalog"
	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

type couponMap map[string]catalog.Coupon

func (m couponMap) Coupon(code string) (catalog.Coupon, bool) {
	cp, ok := m[catalog.NormalizeCode(code)]
	return cp, ok
}

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewResolver(c)
}

func TestResolveScenarios(t *testing.T) {
	r := defaultResolver(t)

	tests := []struct {
		name         string
		code         string
		wantDiscount int64
		wantFinal    int64
		wantCoupon   string
	}{
		{"percentage WELCOME20", "WELCOME20", 200, 799, "WELCOME20"},
		{"fixed FLAT100", "FLAT100", 100, 899, "FLAT100"},
		{"lower case code", "student50", 500, 499, "STUDENT50"},
		{"unknown code charges full price", "BOGUS", 0, 999, ""},
		{"no code", "", 0, 999, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := r.Resolve(999, tt.code)
			assert.Equal(t, tt.wantDiscount, p.Discount)
			assert.Equal(t, tt.wantFinal, p.Final)
			if tt.wantCoupon == "" {
				assert.Nil(t, p.CouponCode)
			} else {
				require.NotNil(t, p.CouponCode)
				assert.Equal(t, tt.wantCoupon, *p.CouponCode)
			}
		})
	}
}

func TestQuoteRejectsUnknownCoupon(t *testing.T) {
	r := defaultResolver(t)

	_, err := r.Quote(999, "bogus")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoupon))

	_, err = r.Quote(999, "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	p, err := r.Quote(999, "welcome20")
	require.NoError(t, err)
	assert.Equal(t, int64(799), p.Final)
}

func TestQuoteAndResolveAgree(t *testing.T) {
	r := defaultResolver(t)
	for _, code := range []string{"WELCOME20", "FLAT100", "STUDENT50"} {
		q, err := r.Quote(999, code)
		require.NoError(t, err)
		assert.Equal(t, r.Resolve(999, code), q, code)
	}
}

func TestFinalPriceIsNeverNegative(t *testing.T) {
	r := NewResolver(couponMap{
		"HUGE": {Code: "HUGE", Kind: catalog.DiscountFixed, Value: 5000},
		"ALL":  {Code: "ALL", Kind: catalog.DiscountPercentage, Value: 100},
	})

	p := r.Resolve(999, "HUGE")
	assert.Equal(t, int64(5000), p.Discount)
	assert.Equal(t, int64(0), p.Final)

	p = r.Resolve(999, "ALL")
	assert.Equal(t, int64(999), p.Discount)
	assert.Equal(t, int64(0), p.Final)
}

func TestPercentageRoundingProperty(t *testing.T) {
	for pct := int64(0); pct <= 100; pct++ {
		r := NewResolver(couponMap{"P": {Code: "P", Kind: catalog.DiscountPercentage, Value: pct}})
		for base := int64(1); base <= 2000; base += 37 {
			p := r.Resolve(base, "P")

			// integer round-half-up of base*pct/100
			want := (base*pct*2 + 100) / 200
			require.Equal(t, want, p.Discount, "base=%d pct=%d", base, pct)
			require.Equal(t, clamp(base-want), p.Final)
			require.GreaterOrEqual(t, p.Final, int64(0))
		}
	}
}

func TestPercentageHalfRoundsUp(t *testing.T) {
	r := NewResolver(couponMap{"HALF": {Code: "HALF", Kind: catalog.DiscountPercentage, Value: 50}})
	p := r.Resolve(1, "HALF")
	assert.Equal(t, int64(1), p.Discount)
	assert.Equal(t, int64(0), p.Final)
}
