// Package config loads Ladle's deployment settings: the backend API and
// auth endpoints, the asset base URL image references resolve against, and
// the feed refresh cadence. Values come from ~/.config/ladle/config.toml
// with .env and LADLE_* environment overrides layered on top, and are
// validated before use.
package config
