package card

import (
	"slices"
	"time"
)

// Status is the fulfilment state of an order.
type Status string

// Orders move forward through these states one step at a time.
const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusPrinted Status = "printed"
	StatusMailed  Status = "mailed"
)

var statusOrder = []Status{StatusPending, StatusPaid, StatusPrinted, StatusMailed}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return slices.Contains(statusOrder, s) }

// Next returns the status that follows s. The second result is false for
// [StatusMailed] and for unknown statuses.
func (s Status) Next() (Status, bool) {
	i := slices.Index(statusOrder, s)
	if i < 0 || i == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[i+1], true
}

// CanAdvanceTo reports whether an order in status s may move to next.
func (s Status) CanAdvanceTo(next Status) bool {
	n, ok := s.Next()
	return ok && n == next
}

// Order is a purchased card on its way to a recipient.
type Order struct {
	ID              string           `json:"id"`
	CardDesignID    string           `json:"cardDesignId,omitempty"`
	CardDesign      Design           `json:"cardDesign"`
	Recipient       RecipientAddress `json:"recipient"`
	BuyerEmail      string           `json:"buyerEmail,omitempty"`
	BuyerName       string           `json:"buyerName,omitempty"`
	Status          Status           `json:"status,omitempty"`
	StripePaymentID string           `json:"stripePaymentId,omitempty"`
	Amount          int              `json:"amount,omitempty"`  // cents
	Postage         int              `json:"postage,omitempty"` // cents
	PDFURL          string           `json:"pdfUrl,omitempty"`
	CreatedAt       time.Time        `json:"createdAt,omitzero"`
	PrintedAt       *time.Time       `json:"printedAt,omitempty"`
	MailedAt        *time.Time       `json:"mailedAt,omitempty"`
}

// ShortID is the last eight characters of the order id, used in file names
// and in the admin batch listing.
func (o Order) ShortID() string { return ShortID(o.ID) }

// ShortID returns the last eight characters of id, or id itself when shorter.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[len(r)-8:])
}
