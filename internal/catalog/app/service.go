package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrStaleSelection = errors.New("selection changed while loading")
)

type Service struct {
	backend        Backend
	organizationID int64
	fences         *Fences
}

func NewService(backend Backend, organizationID int64) *Service {
	return &Service{
		backend:        backend,
		organizationID: organizationID,
		fences:         NewFences(),
	}
}

// Menu is a normalized view of one branch's catalog.
type Menu struct {
	BranchID   int64
	Filter     Filter
	Items      []domain.Item
	Navigation []NavNode
	HasPromos  bool
	Generation uint64
}

func (s *Service) Branches(ctx context.Context) ([]domain.Branch, error) {
	return s.backend.ListBranches(ctx, s.organizationID)
}

func (s *Service) Branch(ctx context.Context, branchID int64) (domain.Branch, error) {
	if branchID <= 0 {
		return domain.Branch{}, ErrInvalidInput
	}
	branches, err := s.Branches(ctx)
	if err != nil {
		return domain.Branch{}, err
	}
	for _, b := range branches {
		if b.ID == branchID {
			return b, nil
		}
	}
	return domain.Branch{}, ErrNotFound
}

// Menu loads categories and promotions for branchID in parallel and normalizes them.
// A newer Menu call for the same session supersedes this one, which then returns
// ErrStaleSelection instead of an outdated result.
func (s *Service) Menu(ctx context.Context, sessionID string, branchID int64, filter Filter) (Menu, error) {
	if branchID <= 0 {
		return Menu{}, ErrInvalidInput
	}

	fence, release := s.fences.Acquire(sessionID)
	defer release()
	ctx, gen := fence.Begin(ctx)
	defer fence.End(gen)

	var (
		categories []domain.Category
		promos     []domain.Promotion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.backend.ListCategories(gctx, branchID)
		if err != nil {
			return fmt.Errorf("list categories for branch %d: %w", branchID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		promos, err = s.backend.ListPromotions(gctx, branchID)
		if err != nil {
			return fmt.Errorf("list promotions for branch %d: %w", branchID, err)
		}
		return nil
	})

	err := g.Wait()
	if !fence.Current(gen) {
		return Menu{}, ErrStaleSelection
	}
	if err != nil {
		return Menu{}, err
	}

	return Menu{
		BranchID:   branchID,
		Filter:     filter,
		Items:      Items(categories, promos, filter),
		Navigation: Navigation(categories),
		HasPromos:  len(PromotionItems(promos)) > 0,
		Generation: gen,
	}, nil
}

// Item looks up one selectable item of a branch by its ID. Deleted or unpriced
// items are reported as ErrNotFound.
func (s *Service) Item(ctx context.Context, branchID int64, itemID string) (domain.Item, error) {
	kind, _, err := domain.ParseItemID(itemID)
	if err != nil || branchID <= 0 {
		return domain.Item{}, ErrInvalidInput
	}

	var items []domain.Item
	if kind == domain.KindPromotion {
		promos, err := s.backend.ListPromotions(ctx, branchID)
		if err != nil {
			return domain.Item{}, fmt.Errorf("list promotions for branch %d: %w", branchID, err)
		}
		items = PromotionItems(promos)
	} else {
		categories, err := s.backend.ListCategories(ctx, branchID)
		if err != nil {
			return domain.Item{}, fmt.Errorf("list categories for branch %d: %w", branchID, err)
		}
		items = Items(categories, nil, AllCategories())
	}

	for _, it := range items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return domain.Item{}, ErrNotFound
}

// ForgetSession drops fencing state for a session that logged out or expired.
func (s *Service) ForgetSession(sessionID string) {
	s.fences.Forget(sessionID)
}
