// Package config handles loading and parsing of configuration from YAML files,
// environment variables and command-line flags. It defines the service
// configuration: listen address and timeouts, the grading route and query
// parsing mode, CORS headers, metrics exposition and log level.
//
// Watch re-reads the file on change so settings such as the log level can be
// adjusted without a restart.
package config
