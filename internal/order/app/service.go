package app

import (
	"context"
	"sort"

	"github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
)

type Service struct {
	gateway OrderGateway
}

func NewService(gateway OrderGateway) *Service {
	return &Service{gateway: gateway}
}

// History is a client's orders split by progress, newest first in each list.
type History struct {
	Current  []domain.Order
	Previous []domain.Order
}

func (s *Service) History(ctx context.Context, clientID int64) (History, error) {
	if clientID <= 0 {
		return History{}, ErrInvalidInput
	}

	orders, err := s.gateway.ListByClient(ctx, clientID)
	if err != nil {
		return History{}, err
	}

	// dates only carry the day, so same-day orders fall back to the newer id
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].PlacedAt.After(orders[j].PlacedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	var h History
	for _, o := range orders {
		if o.Status.Current() {
			h.Current = append(h.Current, o)
		} else {
			h.Previous = append(h.Previous, o)
		}
	}
	return h, nil
}

func (s *Service) Submit(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	return s.gateway.Submit(ctx, sub)
}
