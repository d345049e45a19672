package order

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCOD          PaymentMethod = "COD"
)

// IsValid checks if the payment method is recognized
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCOD:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus records whether payment has been captured
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// String returns the string representation
func (s PaymentStatus) String() string {
	return string(s)
}
