package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/shopspring/decimal"
)

type Image struct {
	URL string
}

type Article struct {
	ID           int64
	Name         string
	SalePrice    decimal.Decimal
	PromoPrice   decimal.Decimal
	Deleted      bool
	Images       []Image
	CategoryName string
}

// Eligible reports whether the article may be listed: not deleted and priced above zero.
func (a Article) Eligible() bool {
	return !a.Deleted && a.SalePrice.IsPositive()
}

type Category struct {
	ID            int64
	Name          string
	ParentID      *int64
	Subcategories []Category
	Articles      []Article
}

type PromotionDetail struct {
	Quantity int
	Article  Article
}

// Promotion is a bundle of articles sold at one combined price.
type Promotion struct {
	ID         int64
	Name       string
	PromoPrice decimal.Decimal
	Deleted    bool
	Images     []Image
	Details    []PromotionDetail
}

type Branch struct {
	ID      int64
	Name    string
	Address geo.Address
}

type ItemKind string

const (
	KindArticle   ItemKind = "article"
	KindPromotion ItemKind = "promotion"
)

// Component is one article inside a bundle item.
type Component struct {
	Quantity  int
	ArticleID int64
	Name      string
}

// Item is what a customer can put in the cart. Articles and promotions share one
// shape; ID is unique across both kinds.
type Item struct {
	ID           string
	SourceID     int64
	Kind         ItemKind
	Name         string
	BasePrice    decimal.Decimal
	PromoPrice   decimal.Decimal
	Components   []Component
	Images       []Image
	CategoryName string
	Deleted      bool
}

func ItemID(kind ItemKind, sourceID int64) string {
	prefix := "art-"
	if kind == KindPromotion {
		prefix = "promo-"
	}
	return prefix + strconv.FormatInt(sourceID, 10)
}

var ErrBadItemID = errors.New("malformed item id")

// ParseItemID is the inverse of ItemID.
func ParseItemID(id string) (ItemKind, int64, error) {
	kind := KindArticle
	rest, ok := strings.CutPrefix(id, "art-")
	if !ok {
		if rest, ok = strings.CutPrefix(id, "promo-"); !ok {
			return "", 0, ErrBadItemID
		}
		kind = KindPromotion
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n <= 0 {
		return "", 0, ErrBadItemID
	}
	return kind, n, nil
}

// EffectiveUnitPrice is the promotional price when set and positive, else the base price.
func (i Item) EffectiveUnitPrice() decimal.Decimal {
	if i.PromoPrice.IsPositive() {
		return i.PromoPrice
	}
	return i.BasePrice
}

func (i Item) Selectable() bool {
	return !i.Deleted && i.BasePrice.IsPositive()
}

func (i Item) IsBundle() bool { return len(i.Components) > 0 }

func (i Item) ImageURL() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0].URL
}
