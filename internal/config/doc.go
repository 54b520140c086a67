// Package config resolves the serve configuration from command-line flags,
// SLOTKEEPER_* environment variables, an optional YAML file, and built-in
// defaults, in that order of precedence.
//
// Example config file:
//
//	transport: streamable-http
//	http-addr: ":8080"
//	log-format: json
//	read-only: true
//	coaching-days: 14
//	rate-limit: 5
//	rate-limit-burst: 10
package config
