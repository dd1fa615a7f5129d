package app

import (
	"strconv"
	"strings"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
)

// PromotionsCategory is the display name attached to bundle items.
const PromotionsCategory = "Promociones"

// Filter selects which part of the catalog a menu shows. The zero value means all
// categories.
type Filter struct {
	CategoryID *int64
	Promotions bool
}

func AllCategories() Filter { return Filter{} }

func OnlyPromotions() Filter { return Filter{Promotions: true} }

func InCategory(id int64) Filter { return Filter{CategoryID: &id} }

// ParseFilter accepts "", "all", "promotions" or a category id.
func ParseFilter(raw string) (Filter, error) {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "", "all":
		return AllCategories(), nil
	case "promotions", "promociones":
		return OnlyPromotions(), nil
	default:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return Filter{}, ErrInvalidInput
		}
		return InCategory(id), nil
	}
}

// NavNode is one entry of the category dropdown.
type NavNode struct {
	ID       int64
	Name     string
	Children []NavNode
}

type flatCategory struct {
	domain.Category
	parent *int64
}

// flatten walks the forest pre-order. A category reachable twice (listed at the
// root and nested under its parent) is kept once. Nested children without an
// explicit ParentID inherit the id of the node they were nested under.
func flatten(forest []domain.Category) []flatCategory {
	seen := make(map[int64]struct{})
	var out []flatCategory

	var walk func(cats []domain.Category, parent *int64)
	walk = func(cats []domain.Category, parent *int64) {
		for _, c := range cats {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}

			p := c.ParentID
			if p == nil {
				p = parent
			}
			out = append(out, flatCategory{Category: c, parent: p})

			id := c.ID
			walk(c.Subcategories, &id)
		}
	}
	walk(forest, nil)
	return out
}

// descendants returns root plus every category transitively below it.
func descendants(flat []flatCategory, root int64) map[int64]struct{} {
	children := make(map[int64][]int64)
	for _, c := range flat {
		if c.parent != nil {
			children[*c.parent] = append(children[*c.parent], c.ID)
		}
	}

	set := map[int64]struct{}{root: {}}
	queue := []int64{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if _, ok := set[child]; ok {
				continue
			}
			set[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return set
}

// Items lists the selectable items for filter. Articles keep source order and are
// tagged with their owning category; an article listed under two categories shows
// up twice.
func Items(forest []domain.Category, promos []domain.Promotion, filter Filter) []domain.Item {
	if filter.Promotions {
		return PromotionItems(promos)
	}

	flat := flatten(forest)

	var scope map[int64]struct{}
	if filter.CategoryID != nil {
		scope = descendants(flat, *filter.CategoryID)
	}

	var out []domain.Item
	for _, c := range flat {
		if scope != nil {
			if _, ok := scope[c.ID]; !ok {
				continue
			}
		}
		for _, a := range c.Articles {
			if !a.Eligible() {
				continue
			}
			out = append(out, articleItem(a, c.Name))
		}
	}
	return out
}

// PromotionItems converts bundles into cart-ready items.
func PromotionItems(promos []domain.Promotion) []domain.Item {
	var out []domain.Item
	for _, p := range promos {
		it := domain.Item{
			ID:           domain.ItemID(domain.KindPromotion, p.ID),
			SourceID:     p.ID,
			Kind:         domain.KindPromotion,
			Name:         p.Name,
			BasePrice:    p.PromoPrice,
			Images:       p.Images,
			CategoryName: PromotionsCategory,
			Deleted:      p.Deleted,
		}
		for _, d := range p.Details {
			it.Components = append(it.Components, domain.Component{
				Quantity:  d.Quantity,
				ArticleID: d.Article.ID,
				Name:      d.Article.Name,
			})
		}
		if it.Selectable() {
			out = append(out, it)
		}
	}
	return out
}

func articleItem(a domain.Article, category string) domain.Item {
	return domain.Item{
		ID:           domain.ItemID(domain.KindArticle, a.ID),
		SourceID:     a.ID,
		Kind:         domain.KindArticle,
		Name:         a.Name,
		BasePrice:    a.SalePrice,
		PromoPrice:   a.PromoPrice,
		Images:       a.Images,
		CategoryName: category,
		Deleted:      a.Deleted,
	}
}

// EligibleCategories prunes, bottom-up, every category that neither holds an
// eligible article nor has a surviving descendant.
func EligibleCategories(forest []domain.Category) []domain.Category {
	var out []domain.Category
	for _, c := range forest {
		c.Subcategories = EligibleCategories(c.Subcategories)
		if hasEligible(c.Articles) || len(c.Subcategories) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func hasEligible(arts []domain.Article) bool {
	for _, a := range arts {
		if a.Eligible() {
			return true
		}
	}
	return false
}

// Navigation builds the dropdown tree from the top-level eligible categories.
func Navigation(forest []domain.Category) []NavNode {
	var toNodes func(cats []domain.Category) []NavNode
	toNodes = func(cats []domain.Category) []NavNode {
		var nodes []NavNode
		for _, c := range cats {
			nodes = append(nodes, NavNode{ID: c.ID, Name: c.Name, Children: toNodes(c.Subcategories)})
		}
		return nodes
	}

	var roots []domain.Category
	for _, c := range EligibleCategories(forest) {
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	return toNodes(roots)
}
