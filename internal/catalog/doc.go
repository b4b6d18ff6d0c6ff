// Package catalog provides read access to storefront content.
//
// # Sources
//
// Content comes from a Source. Three implementations exist:
//
//   - Client: the storefront HTTP API (banners, categories, products, search)
//   - Fixture: a YAML file, fuzzy-ranked search, reloadable via WatchFixture
//   - Cached: a TTL decorator over another Source; search is never cached
//
// # API Endpoints
//
//   - GET /api/banners: {"banners": [...]}
//   - GET /api/categories: {"categories": [...]}
//   - GET /api/products?limit=&category=&search=: {"products": [...]}
//   - GET /api/products/{slug|id}: bare product record, 404 when unknown
//   - GET /api/search?q=: {"results": [{id, title, price?, slug?}]}
//
// Every request carries Accept, User-Agent and a fresh X-Request-ID header.
// A missing envelope field decodes as an empty list.
//
// # Display Fallbacks
//
// Records are checked for presence only. A missing image renders as NoImage,
// a missing price as zero and an empty banner list as DefaultBanner.
package catalog
