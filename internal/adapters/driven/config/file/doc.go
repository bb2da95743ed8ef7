// Package file keeps user-editable state under ~/.cinepick: settings in
// config.toml, overridable by CINEPICK_* environment variables, and the
// prompts directory.
package file
