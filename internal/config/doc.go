// Package config manages persistent user settings stored at
// ~/.asext/config.yaml and their resolution against environment variables
// and platform defaults. Settings are resolved once at startup into an
// explicit struct that commands pass into the packages that need them.
package config
