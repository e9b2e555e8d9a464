// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/surrogate/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/surrogate/config.cue on macOS, %APPDATA%\surrogate\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden from the
// environment as SURROGATE_<SECTION>_<KEY>; the API token also honors HEROKU_API_KEY.
//
// Configuration files are validated against the embedded CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
