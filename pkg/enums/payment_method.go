package enums

import "fmt"

// PaymentMethod identifies how a checkout attempt settles.
type PaymentMethod string

const (
	// PaymentMethodStripe is the redirect-based hosted checkout.
	PaymentMethodStripe PaymentMethod = "stripe"
	// PaymentMethodPaypal is an asynchronous external provider.
	PaymentMethodPaypal PaymentMethod = "paypal"
	// PaymentMethodTransfer is manual bank settlement confirmed out-of-band.
	PaymentMethodTransfer PaymentMethod = "transfer"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodStripe,
	PaymentMethodPaypal,
	PaymentMethodTransfer,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
