package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPago implements Provider with Checkout Pro preferences.
type MercadoPago struct {
	preferences preference.Client
	payments    mppayment.Client
}

var _ Provider = (*MercadoPago)(nil)

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, preference.ItemRequest{
			Title:       it.Title,
			Description: it.Description,
			PictureURL:  it.ImageURL,
			CurrencyID:  it.Currency,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		})
	}

	pref, err := m.preferences.Create(ctx, preference.Request{
		Items:             items,
		ExternalReference: req.Reference,
		Payer:             &preference.PayerRequest{Email: req.CustomerEmail},
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Pending: req.SuccessURL,
			Failure: req.CancelURL,
		},
		AutoReturn:      "approved",
		NotificationURL: req.NotificationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	return &CheckoutSession{
		ID:         pref.ID,
		URL:        pref.InitPoint,
		SandboxURL: pref.SandboxInitPoint,
	}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (*Payment, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("payment id %q: %w", id, err)
	}

	p, err := m.payments.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &Payment{
		ID:         strconv.Itoa(p.ID),
		Status:     p.Status,
		Reference:  p.ExternalReference,
		PayerEmail: p.Payer.Email,
		Amount:     p.TransactionAmount,
	}, nil
}
