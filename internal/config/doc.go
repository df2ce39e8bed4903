// Package config loads, merges and validates the configuration of the
// ledger-sync server and device client.
//
// Sources are merged with [dario.cat/mergo]; the first non-zero value of a
// field wins. The server reads, in order of precedence:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The device client replaces the flag source with values bound to its cobra
// flags, see [GetClientConfig].
package config
