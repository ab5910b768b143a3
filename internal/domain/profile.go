package domain

// Address is a shipping address as captured during address management or
// checkout.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	County     string `json:"county,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
}

// PaymentOnFile is the checkout-safe view of a stored payment record:
// cardholder name and expiry only. Stored payment records never carry
// enough information to reconstruct a chargeable card.
type PaymentOnFile struct {
	CardholderName string `json:"cardholderName"`
	Expiry         string `json:"expiry"`
}

// ReconciledProfile is the checkout default-value set, assembled on demand
// by merging the user's independently-owned records. It is never persisted
// as its own entity.
type ReconciledProfile struct {
	Email    string        `json:"email"`
	FullName string        `json:"fullName"`
	Phone    string        `json:"phone"`
	Address  Address       `json:"address"`
	Payment  PaymentOnFile `json:"payment"`
}
