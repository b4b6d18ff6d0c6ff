// Package app is the composition root for the storefront.
//
// Open loads configuration and preferences, builds the logger, local
// storage, the cart and the catalog source (HTTP backend or YAML fixture,
// wrapped in a TTL cache). The CLI subcommands use it directly.
//
// Run additionally starts the landing-page poller, the fixture watcher and
// the search controller, then blocks in the TUI:
//
//	Run()
//	 ├─> Open()             config, prefs, logger, storage, cart, catalog
//	 ├─> StartPoller()      catalog.LoadHome -> state.Store, with backoff
//	 ├─> WatchFixture()     reload fixture -> invalidate cache -> Trigger()
//	 ├─> NewController()    debounced search over the catalog
//	 └─> ui.Run()           blocks until quit
//
// Refresh failures are logged and retried at 2s, 4s, 8s ... capped at 30s
// and never longer than the normal refresh interval.
package app
