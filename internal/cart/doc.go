// Package cart implements the shopping cart shared by every storefront view.
//
// A Store holds the ordered set of cart lines for one user. Each product id
// appears at most once and every line carries a quantity of at least one.
// The store is hydrated once from local storage when it is created and the
// full cart is written back after every mutation. Storage faults never reach
// callers of the mutators: the store keeps working in memory, records the
// most recent failure (LastPersistError) and logs it at debug level.
//
// Views do not observe the store by subscription. They read Count, Lines and
// Flash after dispatching a mutation, and the Flash counter tells them when
// to pulse the cart badge.
package cart
