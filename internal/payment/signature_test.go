package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "rzp_secret_for_tests"

func TestSignKnownVector(t *testing.T) {
	got := Sign([]byte(testSecret), "order_ABC", "pay_XYZ")
	assert.Len(t, got, 64)
	assert.Equal(t, got, Sign([]byte(testSecret), "order_ABC", "pay_XYZ"))
	assert.NotEqual(t, got, Sign([]byte(testSecret), "order_ABC|pay", "XYZ"))
	assert.NotEqual(t, got, Sign([]byte("other"), "order_ABC", "pay_XYZ"))
}

func TestVerifyAcceptsExactSignature(t *testing.T) {
	v := NewVerifier(testSecret)
	sig := Sign([]byte(testSecret), "order_ABC", "pay_XYZ")

	require.NoError(t, v.Verify(GatewayCallback("order_ABC", "pay_XYZ", sig)))
}

func TestVerifyRejectsEverySingleCharMutation(t *testing.T) {
	v := NewVerifier(testSecret)
	sig := Sign([]byte(testSecret), "order_ABC", "pay_XYZ")

	for i := range sig {
		mutated := []byte(sig)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		err := v.Verify(GatewayCallback("order_ABC", "pay_XYZ", string(mutated)))
		require.ErrorIs(t, err, ErrSignatureMismatch, "position %d", i)
	}

	assert.ErrorIs(t, v.Verify(GatewayCallback("order_ABC", "pay_XYZ", sig[:63])), ErrSignatureMismatch)
	assert.ErrorIs(t, v.Verify(GatewayCallback("order_ABC", "pay_XYZ", sig+"0")), ErrSignatureMismatch)
}

func TestVerifyRejectsSwappedReferences(t *testing.T) {
	v := NewVerifier(testSecret)
	sig := Sign([]byte(testSecret), "order_ABC", "pay_XYZ")

	assert.ErrorIs(t, v.Verify(GatewayCallback("pay_XYZ", "order_ABC", sig)), ErrSignatureMismatch)
	assert.ErrorIs(t, v.Verify(GatewayCallback("order_ABD", "pay_XYZ", sig)), ErrSignatureMismatch)
}

func TestVerifyMissingFields(t *testing.T) {
	v := NewVerifier(testSecret)
	assert.ErrorIs(t, v.Verify(GatewayCallback("order_ABC", "", "x")), ErrMissingFields)
	assert.ErrorIs(t, v.Verify(GatewayCallback("order_ABC", "pay_XYZ", "")), ErrMissingFields)
}

func TestVerifyDemoMode(t *testing.T) {
	demo := NewVerifier("")
	require.True(t, demo.DemoMode())
	assert.NoError(t, demo.Verify(DemoCallback("order_demo_0123456789abcdef")))
	assert.ErrorIs(t, demo.Verify(GatewayCallback("order_ABC", "pay_XYZ", "sig")), ErrGatewayDisabled)

	real := NewVerifier(testSecret)
	require.False(t, real.DemoMode())
	assert.ErrorIs(t, real.Verify(DemoCallback("order_demo_0123456789abcdef")), ErrDemoNotAllowed)
}

func TestVerifyUnknownKind(t *testing.T) {
	assert.Error(t, NewVerifier(testSecret).Verify(Callback{Kind: "other"}))
}
