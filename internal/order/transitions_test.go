package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTarget(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		action Action
		want   Status
		ok     bool
	}{
		{"confirm pending", StatusPending, ActionConfirm, StatusConfirmed, true},
		{"cancel pending", StatusPending, ActionCancel, StatusCancelled, true},
		{"confirm payment on confirmed", StatusConfirmed, ActionConfirmPayment, StatusPaymentPending, true},
		{"confirm twice", StatusConfirmed, ActionConfirm, "", false},
		{"cancel confirmed", StatusConfirmed, ActionCancel, "", false},
		{"pay pending order", StatusPending, ActionConfirmPayment, "", false},
		{"pay twice", StatusPaymentPending, ActionConfirmPayment, "", false},
		{"confirm paid order", StatusPaymentPending, ActionConfirm, "", false},
		{"unknown action", StatusPending, Action("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TransitionTarget(tt.from, tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentMethod
	}{
		{"swish", MethodSwish},
		{"Swish", MethodSwish},
		{"PAYPAL", MethodPayPal},
		{"kort", MethodCard},
		{"Credit Card", MethodCard},
		{"bitcoin", MethodCrypto},
		{"banköverföring", MethodBank},
		{" bank transfer ", MethodBank},
		{"cash in hand", MethodOther},
		{"", MethodOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMethod(tt.raw), "raw=%q", tt.raw)
	}
}

func TestLookupMethod(t *testing.T) {
	method, ok := LookupMethod("paypal")
	assert.True(t, ok)
	assert.Equal(t, MethodPayPal, method)

	method, ok = LookupMethod("Other")
	assert.True(t, ok)
	assert.Equal(t, MethodOther, method)

	_, ok = LookupMethod("cash in hand")
	assert.False(t, ok)
}
