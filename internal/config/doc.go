// Package config loads the storefront client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/nurye/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//  5. NURYE_API_BASE, NURYE_STORAGE and NURYE_CATALOG_FILE override the file
//
// # Default Values
//
//   - API base: 127.0.0.1:3000
//   - Storage: file (one JSON file per key under the data directory)
//   - Data directory: ~/.local/share/nurye
//   - Log file: <data_dir>/nurye.log
//   - Search debounce: 300ms, minimum query length 2
//   - Catalog refresh: 60s
//   - Currency: ETB
//
// # TOML Format
//
//	api_base = "shop.example.com"
//	storage = "sqlite"
//	data_dir = "~/.local/share/nurye"
//	catalog_file = "~/catalog.yaml"
//	search_debounce_ms = 300
//	currency = "ETB"
//
// Parse errors and an unknown storage value are returned as errors; every
// other problem falls back to a default.
package config
