// Package config loads environment-backed configuration structs.
//
// A struct describes its configuration with `env` tags; Load fills it from
// the process environment, reading a local .env file once per process if
// one exists. Types implementing Validator get their Validate method
// called after parsing, so malformed policy values fail at startup rather
// than at first use.
//
//	type Policy struct {
//	    Timeout time.Duration `env:"SESSIONKIT_INACTIVITY_TIMEOUT" envDefault:"30m"`
//	}
//
//	var policy Policy
//	if err := config.Load(&policy); err != nil { ... }
package config
