// Package pricing computes what a buyer pays for the course.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/monuchauhan/nios-elearning/internal/catalog"
	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

// CouponBook resolves coupon codes. *catalog.Catalog satisfies it.
type CouponBook interface {
	Coupon(code string) (catalog.Coupon, bool)
}

// Price is the outcome of applying an optional coupon to a base price.
type Price struct {
	Base       int64
	Discount   int64
	Final      int64
	CouponCode *string
}

// Resolver applies coupons to a base price. It has no state beyond the
// read-only coupon book, so the same inputs always give the same Price.
type Resolver struct {
	coupons CouponBook
}

func NewResolver(coupons CouponBook) *Resolver {
	return &Resolver{coupons: coupons}
}

// Resolve prices base with code. Empty or unknown codes give the full price.
func (r *Resolver) Resolve(base int64, code string) Price {
	cp, ok := r.coupons.Coupon(code)
	if !ok {
		return Price{Base: base, Final: clamp(base)}
	}
	return apply(base, cp)
}

// Quote is the strict form used when a buyer checks a code: an unknown code
// is a validation error.
func (r *Resolver) Quote(base int64, code string) (Price, error) {
	normalized := catalog.NormalizeCode(code)
	if normalized == "" {
		return Price{}, apperrors.NewValidationError("coupon code required", nil)
	}
	cp, ok := r.coupons.Coupon(normalized)
	if !ok {
		return Price{}, apperrors.NewInvalidCoupon(normalized)
	}
	return apply(base, cp), nil
}

func apply(base int64, cp catalog.Coupon) Price {
	var discount int64
	switch cp.Kind {
	case catalog.DiscountPercentage:
		// half away from zero, same as Math.round for positive prices
		discount = decimal.NewFromInt(base).
			Mul(decimal.NewFromInt(cp.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case catalog.DiscountFixed:
		discount = cp.Value
	}

	code := cp.Code
	return Price{
		Base:       base,
		Discount:   discount,
		Final:      clamp(base - discount),
		CouponCode: &code,
	}
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
