// Package ui implements the Ladle terminal interface with Bubble Tea.
//
// The UI is a single Model whose screens are sign-in, registration, and the
// recipe feed. Modals for recipe detail, user profiles, and the add/edit
// form render over the feed; which one is open is tracked by the selection
// package so only one can be active at a time.
//
// Feed data arrives indirectly: a background refresher publishes snapshots
// to the state store and the UI polls the store on a tick, so rendering
// never blocks on the network. User actions (rating, commenting, following,
// saving recipes) run as Bubble Tea commands and nudge the refresher when
// they change what the feeds should show.
package ui
