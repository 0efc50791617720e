package domain

import "time"

// Purchase is the durable record of a completed one-time course payment.
// At most one exists per (UserID, CourseID).
type Purchase struct {
	ID          string
	UserID      string
	CourseID    string
	PaymentID   string
	Amount      int64
	CouponCode  *string
	Discount    int64
	PurchasedAt time.Time
}

// OrderIntent is what the server remembers about an issued order for the
// duration of one checkout round trip.
type OrderIntent struct {
	OrderRef   string  `json:"order_ref"`
	UserID     string  `json:"user_id"`
	CourseID   string  `json:"course_id"`
	Amount     int64   `json:"amount"`
	Discount   int64   `json:"discount"`
	Currency   string  `json:"currency"`
	CouponCode *string `json:"coupon_code,omitempty"`
	Demo       bool    `json:"demo"`
}
