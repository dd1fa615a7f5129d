package rest

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
)

var ErrNoPreference = errors.New("backend returned no preference id")

// PaymentClient asks the backend for a hosted-checkout preference and builds the
// page the customer is sent to.
type PaymentClient struct {
	c           *restclient.Client
	redirectURL string
}

func NewPaymentClient(c *restclient.Client, redirectURL string) *PaymentClient {
	return &PaymentClient{c: c, redirectURL: redirectURL}
}

var _ app.PaymentGateway = (*PaymentClient)(nil)

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type preferenceRequest struct {
	Items []preferenceItem `json:"items"`
}

type preferenceResponse struct {
	PreferenceID string `json:"preferenceId"`
}

func (p *PaymentClient) CreatePreference(ctx context.Context, items []domain.PaymentItem) (domain.Preference, error) {
	req := preferenceRequest{Items: make([]preferenceItem, 0, len(items))}
	for _, it := range items {
		req.Items = append(req.Items, preferenceItem{
			Title:      it.Title,
			Quantity:   it.Quantity,
			CurrencyID: it.Currency,
			UnitPrice:  it.UnitPrice.InexactFloat64(),
		})
	}

	var out preferenceResponse
	if err := p.c.PostJSON(ctx, "/mercadopago/create-preference", req, &out); err != nil {
		return domain.Preference{}, fmt.Errorf("create preference: %w", err)
	}
	if out.PreferenceID == "" {
		return domain.Preference{}, ErrNoPreference
	}

	return domain.Preference{
		ID:          out.PreferenceID,
		RedirectURL: p.redirectURL + "?preference-id=" + url.QueryEscape(out.PreferenceID),
	}, nil
}
