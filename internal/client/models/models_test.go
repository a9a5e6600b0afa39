package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskInput_Validate(t *testing.T) {
	ok := TaskInput{Title: "Share launch post", Message: "Check this out", Reward: Rupees(5), Slots: 100}
	require.NoError(t, ok.Validate())

	err := TaskInput{}.Validate()
	require.ErrorIs(t, err, ErrTaskTitleRequired)
	require.ErrorIs(t, err, ErrTaskMessageRequired)
	require.ErrorIs(t, err, ErrTaskRewardRequired)
	require.ErrorIs(t, err, ErrTaskSlotsRequired)
}

func TestPaymentMethod_Validate(t *testing.T) {
	tests := []struct {
		name string
		pm   PaymentMethod
		want error
	}{
		{name: "upi ok", pm: PaymentMethod{Type: PaymentMethodUPI, UPIID: "asha.k@okaxis"}},
		{name: "upi bad", pm: PaymentMethod{Type: PaymentMethodUPI, UPIID: "asha"}, want: ErrInvalidUPI},
		{name: "bank ok", pm: PaymentMethod{Type: PaymentMethodBank, AccountNumber: "123456789012", IFSC: "hdfc0001234", HolderName: "Asha K"}},
		{name: "bank short account", pm: PaymentMethod{Type: PaymentMethodBank, AccountNumber: "1234", IFSC: "HDFC0001234", HolderName: "A"}, want: ErrInvalidAccount},
		{name: "bank bad ifsc", pm: PaymentMethod{Type: PaymentMethodBank, AccountNumber: "123456789012", IFSC: "HDFC1234", HolderName: "A"}, want: ErrInvalidIFSC},
		{name: "bank no holder", pm: PaymentMethod{Type: PaymentMethodBank, AccountNumber: "123456789012", IFSC: "HDFC0001234"}, want: ErrHolderRequired},
		{name: "unknown", pm: PaymentMethod{Type: "paypal"}, want: ErrUnknownMethodType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pm.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPaymentMethod_Label(t *testing.T) {
	assert.Equal(t, "UPI asha@okaxis", PaymentMethod{Type: PaymentMethodUPI, UPIID: "asha@okaxis"}.Label())
	assert.Equal(t, "Bank ********9012 (HDFC0001234)",
		PaymentMethod{Type: PaymentMethodBank, AccountNumber: "123456789012", IFSC: "hdfc0001234"}.Label())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Asha", User{Name: "Asha", Email: "a@x.in"}.DisplayName())
	assert.Equal(t, "a@x.in", User{Email: "a@x.in"}.DisplayName())
	assert.Equal(t, "9876543210", User{Phone: "9876543210"}.DisplayName())
}
