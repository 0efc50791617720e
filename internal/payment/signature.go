package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrDemoNotAllowed    = errors.New("demo completion rejected: gateway is configured")
	ErrGatewayDisabled   = errors.New("gateway completion rejected: no gateway configured")
	ErrMissingFields     = errors.New("order id, payment id and signature are required")
)

// Verifier checks completion callbacks. It is the only place an untrusted
// client message becomes a trusted completion.
type Verifier struct {
	secret   []byte
	demoMode bool
}

// NewVerifier builds a verifier for the gateway secret. An empty secret means
// the service runs in demo mode.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), demoMode: secret == ""}
}

// DemoMode reports whether demo callbacks are accepted.
func (v *Verifier) DemoMode() bool {
	return v.demoMode
}

// Verify returns nil when cb may be trusted.
func (v *Verifier) Verify(cb Callback) error {
	switch cb.Kind {
	case CallbackDemo:
		if !v.demoMode {
			return ErrDemoNotAllowed
		}
		return nil
	case CallbackGateway:
		if v.demoMode {
			return ErrGatewayDisabled
		}
		if cb.OrderRef == "" || cb.PaymentRef == "" || cb.Signature == "" {
			return ErrMissingFields
		}
		expected := Sign(v.secret, cb.OrderRef, cb.PaymentRef)
		if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
			return ErrSignatureMismatch
		}
		return nil
	default:
		return errors.New("unknown callback kind")
	}
}

// Sign computes hex(HMAC-SHA256(secret, orderRef + "|" + paymentRef)).
func Sign(secret []byte, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
