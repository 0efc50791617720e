package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// demoOrderPrefix marks orders fabricated when no gateway is configured.
const demoOrderPrefix = "order_demo_"

// OrderRequest is what the gateway needs to open an order.
type OrderRequest struct {
	Amount   int64 // whole currency units
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the gateway's reply.
type Order struct {
	ID       string
	Amount   int64 // minor units as echoed by the gateway
	Currency string
	Receipt  string
	Status   string
}

// Gateway opens external payment orders.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

// NewReceipt returns a fresh receipt reference.
func NewReceipt() string {
	return "receipt_" + uuid.NewString()[:8]
}

// NewDemoOrderID returns an order id that can never collide with a gateway id.
func NewDemoOrderID() string {
	return demoOrderPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// IsDemoOrderID reports whether id was produced by NewDemoOrderID.
func IsDemoOrderID(id string) bool {
	return strings.HasPrefix(id, demoOrderPrefix)
}

// NewDemoPaymentID stands in for the gateway payment id of a demo purchase.
func NewDemoPaymentID() string {
	return "demo_" + uuid.NewString()[:8]
}

// ToMinorUnits converts whole rupees to paise.
func ToMinorUnits(amount int64) int64 {
	return amount * 100
}

// GatewayError is a non-2xx reply from the gateway.
type GatewayError struct {
	Status      int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s %s", e.Status, e.Code, e.Description)
}
