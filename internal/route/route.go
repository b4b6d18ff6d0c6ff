// Package route names the storefront's addressable destinations.
package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies a destination.
type Kind int

const (
	Home Kind = iota
	Products
	ProductDetail
	Category
	SearchResults
	Cart
	Profile
)

func (k Kind) String() string {
	switch k {
	case Home:
		return "Home"
	case Products:
		return "Products"
	case ProductDetail:
		return "Product"
	case Category:
		return "Category"
	case SearchResults:
		return "Search"
	case Cart:
		return "Cart"
	case Profile:
		return "Profile"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Route is a destination. Key holds the product or category key, or the
// search text; it is empty for the other kinds.
type Route struct {
	Kind Kind
	Key  string
}

func ToHome() Route               { return Route{Kind: Home} }
func ToProducts() Route           { return Route{Kind: Products} }
func ToProduct(key string) Route  { return Route{Kind: ProductDetail, Key: key} }
func ToCategory(key string) Route { return Route{Kind: Category, Key: key} }
func ToSearch(query string) Route { return Route{Kind: SearchResults, Key: query} }
func ToCart() Route               { return Route{Kind: Cart} }
func ToProfile() Route            { return Route{Kind: Profile} }

// Key prefers a slug and falls back to an id, matching how catalog records
// are addressed.
func Key(slug, id string) string {
	if slug != "" {
		return slug
	}
	return id
}

// Path returns the address of r. Keys are escaped but never validated.
func (r Route) Path() string {
	switch r.Kind {
	case Products:
		return "/products"
	case ProductDetail:
		return "/products/" + url.PathEscape(r.Key)
	case Category:
		return "/category/" + url.PathEscape(r.Key)
	case SearchResults:
		return "/products?search=" + url.QueryEscape(r.Key)
	case Cart:
		return "/cart"
	case Profile:
		return "/profile"
	default:
		return "/"
	}
}

func (r Route) String() string {
	return r.Path()
}

// Parse maps an address such as a banner call-to-action link back to a
// Route. Absolute URLs are reduced to their path and query.
func Parse(addr string) (Route, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Route{}, fmt.Errorf("empty address")
	}
	u, err := url.Parse(addr)
	if err != nil {
		return Route{}, fmt.Errorf("parse address: %w", err)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(segs) == 1 && segs[0] == "":
		return ToHome(), nil
	case segs[0] == "products" && len(segs) == 1:
		if q := strings.TrimSpace(u.Query().Get("search")); q != "" {
			return ToSearch(q), nil
		}
		if c := strings.TrimSpace(u.Query().Get("category")); c != "" {
			return ToCategory(c), nil
		}
		return ToProducts(), nil
	case segs[0] == "products" && len(segs) == 2 && segs[1] != "":
		return ToProduct(segs[1]), nil
	case segs[0] == "category" && len(segs) == 2 && segs[1] != "":
		return ToCategory(segs[1]), nil
	case segs[0] == "cart" && len(segs) == 1:
		return ToCart(), nil
	case segs[0] == "profile" && len(segs) == 1:
		return ToProfile(), nil
	}
	return Route{}, fmt.Errorf("unknown address %q", addr)
}

// History is a back stack of visited routes starting at Home.
type History struct {
	stack []Route
}

// Current returns the active route.
func (h *History) Current() Route {
	if len(h.stack) == 0 {
		return ToHome()
	}
	return h.stack[len(h.stack)-1]
}

// Push makes r current. Pushing the current route again is a no-op.
func (h *History) Push(r Route) {
	if len(h.stack) > 0 && h.stack[len(h.stack)-1] == r {
		return
	}
	if len(h.stack) == 0 && r == ToHome() {
		return
	}
	h.stack = append(h.stack, r)
}

// Back pops the current route and returns the new current one. It reports
// false when already at the root.
func (h *History) Back() (Route, bool) {
	if len(h.stack) == 0 {
		return ToHome(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), true
}

// Depth returns how many routes sit above Home.
func (h *History) Depth() int {
	return len(h.stack)
}
