// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml file. Settings are
// grouped per concern (server, database, redis, auth, cache, worker, smtp,
// rate limiting) and validated with struct tags before use.
package config
