// Package ui is the terminal storefront built on Bubble Tea.
//
// Model owns the navbar, the router back stack and one state struct per
// page. It never talks to the network directly: catalog reads run as
// tea.Cmds, the home page reads snapshots from state.Store, and the navbar
// field drives a search.Controller whose state changes arrive as
// searchStateMsg values.
//
// Pages:
//
//   - Home: hero carousel, categories and featured products
//   - Products, Category, Search results: product listings
//   - Product detail: price, quantity selector and markdown description
//   - Cart: lines with quantity controls and subtotal
//   - Profile: name, email, avatar and theme
//
// Press ? inside the application for the full key list.
package ui
