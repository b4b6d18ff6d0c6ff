// Package state shares landing-page data between the background refresher
// and the UI.
//
// The refresher calls Store.Update after every load of banners, categories
// and featured products; the UI calls Store.Snapshot when it renders. A
// failed load keeps the previous data and counts the failure, and two
// failures in a row mark the snapshot offline so the UI can say so.
//
// Snapshots are copies: callers may modify them freely.
package state
