// internal/config/model.go
//
// Typed configuration model for the platform.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                      – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `OBRTNIK_`-prefixed environment overrides – highest precedence.
//
// Any string value beginning with the prefix `vault:` is resolved through
// the Vault client after unmarshalling, so callers only ever see plain
// strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the control-plane DSN.  The password portion may be a
// `vault:` URI so credentials stay out of flat files and git history.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

//
// Redis section
//

// Redis configures the hostname→slug mapping store.  An empty URL selects
// the in-memory store, which is only suitable for development and tests.
type Redis struct {
	URL string `koanf:"url"`
}

//
// Routing section
//

// Routing carries the edge-rewrite rules that are data rather than code:
// the admin subdomain, and the legacy hostname→slug alias table.  Keeping
// the alias table in config means tenant-alias rules can be tested with
// arbitrary fixtures and edited without a deploy.
type Routing struct {
	AdminHost string            `koanf:"admin_host"`
	Aliases   map[string]string `koanf:"aliases"`
}

//
// Session section
//

// Session holds the HMAC secret for the viewer session cookie.  May be a
// `vault:` URI.
type Session struct {
	Secret string `koanf:"secret" validate:"required"`
}

//
// TenantCache section
//

// TenantCache tunes the in-memory tenant record cache.
type TenantCache struct {
	IdleTTL    time.Duration `koanf:"idle_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or OBRTNIK_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // OBRTNIK_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP        HTTP        `koanf:"http"`
	Database    Database    `koanf:"database"`
	Redis       Redis       `koanf:"redis"`
	Routing     Routing     `koanf:"routing"`
	Session     Session     `koanf:"session"`
	TenantCache TenantCache `koanf:"tenant_cache"`
	Paths       Paths       `koanf:"-"` // not loaded from config files
}
