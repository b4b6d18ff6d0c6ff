package catalog

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nurye/shop/internal/money"
	"github.com/nurye/shop/internal/route"
)

// NoImage is shown wherever an image reference is missing.
const NoImage = "No image"

// ImageRef is an opaque image reference. The backend sends either a plain
// string or an object carrying a url or an asset reference.
type ImageRef string

// Label returns the reference or the placeholder text.
func (r ImageRef) Label() string {
	if strings.TrimSpace(string(r)) == "" {
		return NoImage
	}
	return string(r)
}

type imageObject struct {
	URL   string `json:"url" yaml:"url"`
	Asset struct {
		Ref string `json:"_ref" yaml:"_ref"`
		URL string `json:"url" yaml:"url"`
	} `json:"asset" yaml:"asset"`
}

func (o imageObject) ref() ImageRef {
	switch {
	case o.URL != "":
		return ImageRef(o.URL)
	case o.Asset.URL != "":
		return ImageRef(o.Asset.URL)
	default:
		return ImageRef(o.Asset.Ref)
	}
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ImageRef(s)
		return nil
	}
	var obj imageObject
	if err := json.Unmarshal(data, &obj); err != nil {
		// unknown shapes degrade to the placeholder
		*r = ""
		return nil
	}
	*r = obj.ref()
	return nil
}

func (r *ImageRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = ImageRef(node.Value)
	case yaml.MappingNode:
		var obj imageObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*r = obj.ref()
	default:
		*r = ""
	}
	return nil
}

// Banner is a hero carousel slide.
type Banner struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Text        string          `json:"subtitle,omitempty" yaml:"subtitle"`
	Description json.RawMessage `json:"description,omitempty" yaml:"-"`
	Image       ImageRef        `json:"image,omitempty" yaml:"image"`
	CTAText     string          `json:"ctaText,omitempty" yaml:"cta_text"`
	CTAURL      string          `json:"ctaUrl,omitempty" yaml:"cta_url"`
}

// Subtitle returns the explicit subtitle, or the text of the description,
// which may be a plain string or a list of rich-text blocks.
func (b Banner) Subtitle() string {
	if s := strings.TrimSpace(b.Text); s != "" {
		return s
	}
	return richText(b.Description)
}

// DefaultBanner is shown when the backend has no banners.
func DefaultBanner() Banner {
	return Banner{
		ID:      "default",
		Title:   "Nurye Shope",
		Text:    "Quality essentials — fast delivery across Ethiopia",
		CTAText: "Shop Bestsellers",
		CTAURL:  "/products",
	}
}

// Destination resolves the call-to-action link, falling back to the
// product listing when the link is missing or unrecognized.
func (b Banner) Destination() route.Route {
	if r, err := route.Parse(b.CTAURL); err == nil {
		return r
	}
	return route.ToProducts()
}

type richBlock struct {
	Children []struct {
		Text string `json:"text"`
	} `json:"children"`
}

func richText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var blocks []richBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		var sb strings.Builder
		for _, c := range b.Children {
			sb.WriteString(c.Text)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Category groups products.
type Category struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug,omitempty" yaml:"slug"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Image       ImageRef `json:"image,omitempty" yaml:"image"`
}

// Route addresses the category listing.
func (c Category) Route() route.Route {
	return route.ToCategory(route.Key(c.Slug, c.ID))
}

// Product is a catalog entry.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug,omitempty" yaml:"slug"`
	Price       *float64 `json:"price,omitempty" yaml:"price"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Image       ImageRef `json:"image,omitempty" yaml:"image"`
	Category    string   `json:"category,omitempty" yaml:"category"`
	Vendor      string   `json:"vendor,omitempty" yaml:"vendor"`
}

// DisplayPrice returns the price, or zero when absent.
func (p Product) DisplayPrice() decimal.Decimal {
	return money.FromPtr(p.Price)
}

// PriceValue is DisplayPrice as a float for cart lines.
func (p Product) PriceValue() float64 {
	return p.DisplayPrice().InexactFloat64()
}

// Route addresses the product detail page.
func (p Product) Route() route.Route {
	return route.ToProduct(route.Key(p.Slug, p.ID))
}

// Suggestion is one search-as-you-type result.
type Suggestion struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Price *float64 `json:"price,omitempty"`
	Slug  string   `json:"slug,omitempty"`
}

// Route addresses the suggested product.
func (s Suggestion) Route() route.Route {
	return route.ToProduct(route.Key(s.Slug, s.ID))
}

// Home is the data shown on the landing page.
type Home struct {
	Banners    []Banner
	Categories []Category
	Products   []Product
}

// ProductQuery filters a product listing. Zero values mean no filter.
type ProductQuery struct {
	Limit    int
	Category string
	Search   string
}
