package dto

import (
	"strings"

	"github.com/monuchauhan/nios-elearning/internal/payment"
)

// PaymentConfigResponse is served before checkout.
type PaymentConfigResponse struct {
	KeyID       string `json:"keyId"`
	Currency    string `json:"currency"`
	CoursePrice int64  `json:"coursePrice"`
	DemoMode    bool   `json:"demoMode"`
}

// ValidateCouponRequest payload.
type ValidateCouponRequest struct {
	Code string `json:"code"`
}

type ValidateCouponResponse struct {
	Valid      bool   `json:"valid"`
	Code       string `json:"code"`
	Discount   int64  `json:"discount"`
	FinalPrice int64  `json:"finalPrice"`
	Message    string `json:"message"`
}

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	CouponCode string `json:"couponCode"`
}

// CreateOrderResponse describes the order to pay. Gateway fields are empty
// in demo mode.
type CreateOrderResponse struct {
	OrderID       string  `json:"orderId"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	Discount      int64   `json:"discount"`
	CouponCode    *string `json:"couponCode"`
	DemoMode      bool    `json:"demoMode,omitempty"`
	CourseName    string  `json:"courseName"`
	RazorpayKeyID string  `json:"razorpayKeyId,omitempty"`
	UserEmail     string  `json:"userEmail,omitempty"`
	UserName      string  `json:"userName,omitempty"`
	UserMobile    string  `json:"userMobile,omitempty"`
}

// VerifyPaymentRequest is the completion callback as clients send it.
type VerifyPaymentRequest struct {
	OrderID    string `json:"razorpay_order_id"`
	PaymentID  string `json:"razorpay_payment_id"`
	Signature  string `json:"razorpay_signature"`
	CouponCode string `json:"couponCode"`
	Amount     *int64 `json:"amount"`
	Discount   *int64 `json:"discount"`
	DemoMode   bool   `json:"demoMode"`
}

// Callback decodes the request into its tagged variant. A request is a demo
// claim when it says so or carries no gateway proof at all; whether such a
// claim is acceptable is decided by the verifier, not here.
func (r VerifyPaymentRequest) Callback() payment.Callback {
	orderID := strings.TrimSpace(r.OrderID)
	paymentID := strings.TrimSpace(r.PaymentID)
	signature := strings.TrimSpace(r.Signature)
	if r.DemoMode || (paymentID == "" && signature == "") {
		return payment.DemoCallback(orderID)
	}
	return payment.GatewayCallback(orderID, paymentID, signature)
}
