// Package config loads and merges ackr configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. Environment variables (ACKR_DIR, ACKR_GH_USER, ACKR_UPSTREAM)
//  2. Config file ($XDG_CONFIG_HOME/ackr/config.json)
//  3. Built-in defaults (~/.ackr storage, "upstream" remote, bitcoin/bitcoin)
//
// The merged [Config] is threaded explicitly through the core packages so
// they stay testable against a temporary storage root; nothing reads
// configuration ambiently.
package config
