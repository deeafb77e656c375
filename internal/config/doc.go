// Package config loads ramyun's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/ramyun/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. RAMYUN_TOKEN, RAMYUN_USER_ID and RAMYUN_API_URL override the file
//
// The result is validated with go-playground/validator; an invalid config
// aborts startup with the field that failed.
//
// # Default Values
//
//   - api_url: http://127.0.0.1:8080
//   - data_dir: ~/.local/share/ramyun
//   - store: file (one of file, sqlite, redis, memory)
//   - log_dir: ~/.local/state/ramyun
//   - refresh_seconds: 30 (0 disables background refresh)
//   - request_timeout_seconds: 5
//
// # TOML Format
//
//	api_url = "https://ramyun.example.com"
//	store = "redis"
//	redis_url = "redis://localhost:6379/0"
//	metrics_addr = "127.0.0.1:9464"
//	token = "eyJhbGciOi..."
//
// redis_url is required when store is redis. metrics_addr is empty by default,
// which keeps the debug server off.
//
// # Credentials
//
// token is sent as a bearer credential. user_id keys per-user data such as the
// recently viewed list; when it is empty it is read from the token's claims.
// Without a token the session is anonymous: browsing works, favorites and
// recent history do not.
//
// # Path Expansion
//
// Paths starting with ~ are expanded against the user's home directory and
// made absolute. If expansion fails the path is used as given.
package config
