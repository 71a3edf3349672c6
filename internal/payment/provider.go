package payment

import "context"

const StatusApproved = "approved"

type LineItem struct {
	Title       string
	Description string
	ImageURL    string
	Currency    string
	UnitPrice   float64
	Quantity    int
}

type CheckoutRequest struct {
	// Reference comes back on the payment and identifies what was bought.
	Reference       string
	CustomerEmail   string
	SuccessURL      string
	CancelURL       string
	NotificationURL string
	Items           []LineItem
}

// CheckoutSession is a hosted payment page the client is redirected to.
type CheckoutSession struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	SandboxURL string `json:"sandboxUrl,omitempty"`
}

type Payment struct {
	ID         string
	Status     string
	Reference  string
	PayerEmail string
	Amount     float64
}

type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}
