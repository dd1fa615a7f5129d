package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/buensabor-storefront/internal/order/app"
	order "github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart          = orderapp.ErrEmptyCart
	ErrOrderRejected      = errors.New("order rejected")
	ErrCheckoutFailed     = errors.New("checkout failed")
	ErrPaymentUnavailable = errors.New("online payment is not available")
)

const (
	msgAccepted = "Your order was placed."
	msgRedirect = "Your order was placed. Complete the payment to confirm it."
	msgKept     = " Items added while the order was being placed are still in your cart."
	msgRejected = "The order was rejected, some items are out of stock. Your cart was kept."
	msgFailed   = "The order could not be placed. Please try again."
	msgPayment  = "The payment could not be started. Please try again."

	surchargeTitle = "Recargo envío"
)

type Config struct {
	Currency      string
	MaxConcurrent int
	Pricing       cart.Pricing
}

type Service struct {
	Cart     CartStore
	Catalog  CatalogReader
	composer Composer
	orders   OrderSubmitter
	notifier Notifier

	payments  PaymentGateway
	ledger    Ledger
	publisher Publisher

	cfg   Config
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithPayments(p PaymentGateway) Option { return func(s *Service) { s.payments = p } }
func WithLedger(l Ledger) Option           { return func(s *Service) { s.ledger = l } }
func WithPublisher(p Publisher) Option     { return func(s *Service) { s.publisher = p } }

func NewService(cartStore CartStore, catalog CatalogReader, composer Composer, orders OrderSubmitter, notifier Notifier, cfg Config, log *slog.Logger, opts ...Option) *Service {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		Cart:     cartStore,
		Catalog:  catalog,
		composer: composer,
		orders:   orders,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Request struct {
	Fulfillment order.FulfillmentType
	Payment     order.PaymentMethod
}

// Quote re-prices the session's cart against the current catalog. Lines whose
// item is gone or no longer selectable are marked unavailable and left out of
// the totals.
func (s *Service) Quote(ctx context.Context, sessionID string, fulfillment order.FulfillmentType) (domain.Quote, error) {
	st, err := s.Cart.Get(ctx, sessionID)
	if err != nil {
		return domain.Quote{}, err
	}
	if st.Empty() {
		return domain.Quote{}, ErrEmptyCart
	}
	if st.Branch == nil {
		return domain.Quote{}, orderapp.ErrNoBranch
	}

	lines := make([]domain.QuoteLine, len(st.Lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)

	for idx := range st.Lines {
		idx := idx
		g.Go(func() error {
			l := st.Lines[idx]

			item, err := s.Catalog.Item(gctx, st.Branch.ID, l.Item.ID)
			available := err == nil && item.Selectable()
			if errors.Is(err, catalogapp.ErrNotFound) {
				item, err = l.Item, nil
			}
			if err != nil {
				return fmt.Errorf("failed to get item %s: %w", l.Item.ID, err)
			}

			unit := item.EffectiveUnitPrice()
			qty := int64(l.Quantity)
			lines[idx] = domain.QuoteLine{
				ItemID:    l.Item.ID,
				Name:      item.Name,
				Quantity:  qty,
				UnitPrice: s.money(unit),
				LineTotal: s.money(unit.Mul(decimal.NewFromInt(qty))),
				Available: available,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	subtotal := decimal.Zero
	changed := false
	for i, line := range lines {
		if !line.Available {
			changed = true
			continue
		}
		if !line.UnitPrice.Amount.Equal(st.Lines[i].Item.EffectiveUnitPrice()) {
			changed = true
		}
		subtotal = subtotal.Add(line.LineTotal.Amount)
	}
	surcharge := s.cfg.Pricing.Surcharge(subtotal, fulfillment == order.Delivery)

	return domain.Quote{
		Lines:     lines,
		Subtotal:  s.money(subtotal),
		Surcharge: s.money(surcharge),
		Total:     s.money(subtotal.Add(surcharge)),
		Changed:   changed,
	}, nil
}

// Checkout composes the session's cart into an order and submits it. The ordered
// lines leave the cart only when the backend accepts the order as PENDIENTE;
// anything added meanwhile stays and the outcome says so. Every outcome is
// notified, and recorded and published when a ledger or publisher is set.
func (s *Service) Checkout(ctx context.Context, sessionID string, req Request) (domain.Outcome, error) {
	att := domain.Attempt{ID: s.newID(), SessionID: sessionID, CreatedAt: s.now()}

	st, err := s.Cart.Get(ctx, sessionID)
	if err != nil {
		return s.finish(ctx, att, failed(msgFailed), fmt.Errorf("%w: load cart: %w", ErrCheckoutFailed, err))
	}
	if st.User != nil {
		att.ClientID = st.User.ID
	}

	sub, err := s.composer.Compose(ctx, orderapp.ComposeRequest{State: st, Fulfillment: req.Fulfillment, Payment: req.Payment})
	if err != nil {
		if orderapp.IsPrecondition(err) {
			return s.finish(ctx, att, failed(preconditionMessage(err)), err)
		}
		if errors.Is(err, orderapp.ErrInvalidInput) {
			return s.finish(ctx, att, failed(msgFailed), err)
		}
		return s.finish(ctx, att, failed(msgFailed), fmt.Errorf("%w: %w", ErrCheckoutFailed, err))
	}
	att.IdempotencyKey = sub.IdempotencyKey
	att.Total = sub.Total

	var pref domain.Preference
	if req.Payment == order.MercadoPago {
		if s.payments == nil {
			return s.finish(ctx, att, failed(msgPayment), ErrPaymentUnavailable)
		}
		pref, err = s.payments.CreatePreference(ctx, s.PaymentItems(st, sub.Surcharge))
		if err != nil {
			return s.finish(ctx, att, failed(msgPayment), fmt.Errorf("%w: create payment preference: %w", ErrCheckoutFailed, err))
		}
	}

	res, err := s.orders.Submit(ctx, sub)
	if err != nil {
		return s.finish(ctx, att, failed(msgFailed), fmt.Errorf("%w: %w", ErrCheckoutFailed, err))
	}

	out := domain.Outcome{OrderID: res.OrderID, Status: string(res.Status)}
	switch res.Status {
	case order.StatusPending:
		out.Kind, out.Message = domain.OutcomeAccepted, msgAccepted
		if pref.RedirectURL != "" {
			out.Kind, out.Message, out.RedirectURL = domain.OutcomeRedirect, msgRedirect, pref.RedirectURL
		}
		rest, err := s.Cart.RemoveOrdered(ctx, sessionID, st)
		switch {
		case err != nil:
			s.log.Error("remove ordered lines from cart",
				slog.String("session_id", sessionID),
				slog.Int64("order_id", res.OrderID),
				slog.Any("err", err),
			)
		case !rest.Empty():
			out.Message += msgKept
			s.log.Info("cart kept lines added during checkout",
				slog.String("session_id", sessionID),
				slog.Int64("order_id", res.OrderID),
				slog.Int("lines", rest.ItemCount()),
			)
		}
		return s.finish(ctx, att, out, nil)
	case order.StatusRejected:
		out.Kind, out.Message = domain.OutcomeRejected, msgRejected
		return s.finish(ctx, att, out, ErrOrderRejected)
	default:
		out.Kind, out.Message = domain.OutcomeFailed, msgFailed
		return s.finish(ctx, att, out, fmt.Errorf("%w: unexpected order status %q", ErrCheckoutFailed, res.Status))
	}
}

// PaymentItems lists the cart lines for a payment preference, plus a surcharge
// line when one applies.
func (s *Service) PaymentItems(st cart.State, surcharge decimal.Decimal) []domain.PaymentItem {
	items := make([]domain.PaymentItem, 0, len(st.Lines)+1)
	for _, l := range st.Lines {
		items = append(items, domain.PaymentItem{
			Title:     l.Item.Name,
			Quantity:  l.Quantity,
			Currency:  s.cfg.Currency,
			UnitPrice: l.Item.EffectiveUnitPrice(),
		})
	}
	if surcharge.IsPositive() {
		items = append(items, domain.PaymentItem{
			Title:     surchargeTitle,
			Quantity:  1,
			Currency:  s.cfg.Currency,
			UnitPrice: surcharge,
		})
	}
	return items
}

func (s *Service) finish(ctx context.Context, att domain.Attempt, out domain.Outcome, err error) (domain.Outcome, error) {
	at := s.now()
	att.Outcome = out.Kind
	att.Status = out.Status
	att.Message = out.Message

	s.notifier.Notify(ctx, domain.Notification{
		SessionID: att.SessionID,
		Kind:      out.Kind,
		Message:   out.Message,
		OrderID:   out.OrderID,
		At:        at,
	})

	if s.ledger != nil {
		if lerr := s.ledger.Record(ctx, att); lerr != nil {
			s.log.Warn("record checkout attempt", slog.String("attempt_id", att.ID), slog.Any("err", lerr))
		}
	}
	if s.publisher != nil {
		ev := domain.Event{
			AttemptID: att.ID,
			SessionID: att.SessionID,
			ClientID:  att.ClientID,
			OrderID:   out.OrderID,
			Outcome:   out.Kind,
			Status:    out.Status,
			Total:     att.Total,
			At:        at,
		}
		if perr := s.publisher.Publish(ctx, ev); perr != nil {
			s.log.Warn("publish checkout event", slog.String("attempt_id", att.ID), slog.Any("err", perr))
		}
	}

	if err != nil {
		s.log.Info("checkout not completed",
			slog.String("session_id", att.SessionID),
			slog.String("outcome", string(out.Kind)),
			slog.Any("err", err),
		)
	}
	return out, err
}

func (s *Service) money(d decimal.Decimal) domain.Money {
	return domain.Money{Currency: s.cfg.Currency, Amount: d}
}

func failed(msg string) domain.Outcome {
	return domain.Outcome{Kind: domain.OutcomeFailed, Message: msg}
}

func preconditionMessage(err error) string {
	switch {
	case errors.Is(err, orderapp.ErrNotAuthenticated):
		return "Log in to place your order."
	case errors.Is(err, orderapp.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, orderapp.ErrNoBranch):
		return "Select a branch before ordering."
	case errors.Is(err, orderapp.ErrNoAddress):
		return "Add a delivery address to your profile."
	case errors.Is(err, orderapp.ErrIncompleteAddress):
		return "Your delivery address is incomplete."
	}
	return msgFailed
}
