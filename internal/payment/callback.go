package payment

// CallbackKind tags which shape of completion message the client sent.
type CallbackKind string

const (
	CallbackDemo    CallbackKind = "demo"
	CallbackGateway CallbackKind = "gateway"
)

// Callback is a client-submitted payment completion message. Gateway
// callbacks carry the references and signature; demo callbacks carry only
// the order reference the server issued.
type Callback struct {
	Kind       CallbackKind
	OrderRef   string
	PaymentRef string
	Signature  string
}

// DemoCallback builds the demo variant.
func DemoCallback(orderRef string) Callback {
	return Callback{Kind: CallbackDemo, OrderRef: orderRef}
}

// GatewayCallback builds the signed variant.
func GatewayCallback(orderRef, paymentRef, signature string) Callback {
	return Callback{Kind: CallbackGateway, OrderRef: orderRef, PaymentRef: paymentRef, Signature: signature}
}
