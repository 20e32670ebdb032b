// Package app wires the Ladle client together: configuration, preferences,
// the recipeshare API client, session persistence, the shared feed store,
// the background refresher, and the terminal UI.
package app
