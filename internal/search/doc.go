// Package search turns navbar keystrokes into a debounced suggestion list.
//
// A Controller owns the query state shown by the search dropdown: the raw
// input, the latest results, the keyboard selection and whether the panel is
// open. Input shorter than the minimum length clears the results at once.
// Longer input restarts a debounce window; when it elapses one request is
// issued for the trimmed text. Every request is tagged with a generation and
// its context is cancelled once newer input arrives, so a slow response can
// never overwrite the results of a later query.
//
// Fetch failures are logged and shown as an empty result set.
package search
