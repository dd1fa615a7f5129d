package http

import (
	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/shopspring/decimal"
)

type BranchView struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Address geo.Address `json:"address"`
}

type ComponentView struct {
	ArticleID int64  `json:"article_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// ItemView is the JSON shape of a catalog item, shared with the cart API.
type ItemView struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	BasePrice  decimal.Decimal `json:"base_price"`
	PromoPrice decimal.Decimal `json:"promo_price,omitzero"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url,omitempty"`
	Components []ComponentView `json:"components,omitempty"`
}

type NavView struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Children []NavView `json:"children,omitempty"`
}

type MenuView struct {
	BranchID   int64      `json:"branch_id"`
	Items      []ItemView `json:"items"`
	Navigation []NavView  `json:"navigation"`
	HasPromos  bool       `json:"has_promotions"`
	Generation uint64     `json:"generation"`
}

func NewItemView(it domain.Item) ItemView {
	v := ItemView{
		ID:         it.ID,
		Kind:       string(it.Kind),
		Name:       it.Name,
		Category:   it.CategoryName,
		BasePrice:  it.BasePrice,
		PromoPrice: it.PromoPrice,
		UnitPrice:  it.EffectiveUnitPrice(),
		ImageURL:   it.ImageURL(),
	}
	for _, c := range it.Components {
		v.Components = append(v.Components, ComponentView{ArticleID: c.ArticleID, Name: c.Name, Quantity: c.Quantity})
	}
	return v
}

func toBranchView(b domain.Branch) BranchView {
	return BranchView{ID: b.ID, Name: b.Name, Address: b.Address}
}

func toNavViews(nodes []app.NavNode) []NavView {
	out := make([]NavView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NavView{ID: n.ID, Name: n.Name, Children: toNavViews(n.Children)})
	}
	return out
}

func toMenuView(m app.Menu) MenuView {
	items := make([]ItemView, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, NewItemView(it))
	}
	return MenuView{
		BranchID:   m.BranchID,
		Items:      items,
		Navigation: toNavViews(m.Navigation),
		HasPromos:  m.HasPromos,
		Generation: m.Generation,
	}
}
