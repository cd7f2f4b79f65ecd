package models

// PaymentMethod identifies how an order is paid.
type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodMomo         PaymentMethod = "momo"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodMomo, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// GatewayBased reports whether the method requires a redirect to an external
// payment processor before the order can be placed.
func (m PaymentMethod) GatewayBased() bool {
	return m == PaymentMethodMomo
}

// PayingStatus tracks the payment axis of an order, independent of its
// fulfilment status.
type PayingStatus string

const (
	PayingStatusUnpaid PayingStatus = "Unpaid"
	PayingStatusPaid   PayingStatus = "Paid"
	PayingStatusFailed PayingStatus = "Failed"
)

// Valid reports whether s is a supported paying status.
func (s PayingStatus) Valid() bool {
	switch s {
	case PayingStatusUnpaid, PayingStatusPaid, PayingStatusFailed:
		return true
	}
	return false
}

// RefundStatus tracks the refund sub-lifecycle of a cancelled, paid order.
type RefundStatus string

const (
	RefundStatusNotInitiated RefundStatus = "NotInitiated"
	RefundStatusPending      RefundStatus = "Pending"
	RefundStatusProcessing   RefundStatus = "Processing"
	RefundStatusCompleted    RefundStatus = "Completed"
	RefundStatusFailed       RefundStatus = "Failed"
)

// Valid reports whether s is a supported refund status.
func (s RefundStatus) Valid() bool {
	switch s {
	case RefundStatusNotInitiated, RefundStatusPending, RefundStatusProcessing,
		RefundStatusCompleted, RefundStatusFailed:
		return true
	}
	return false
}

// RefundInfo holds the bank details a user submits to receive a refund.
type RefundInfo struct {
	BankName      string `bson:"bank_name" json:"bank_name"`
	AccountNumber string `bson:"account_number" json:"account_number"`
	AccountName   string `bson:"account_name" json:"account_name"`
}
