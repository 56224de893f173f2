// internal/vault/vault.go
//
// Vault client wrapper for secret-bearing config values.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK behind two calls: `IsURI` and
//     `Resolve`.
//   - A `vault:` URI has the shape `vault:<mount>/<path>#<key>` and is
//     resolved through KV-v2 at config-load time, so the rest of the app
//     only ever handles plain strings.
//   - Resolved values are cached per canonical path#key with a short TTL;
//     config reloads within the TTL do not hit the Vault server again.
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR  – scheme and host of the Vault server.
//   - VAULT_TOKEN – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

const uriPrefix = "vault:"

// cacheTTL bounds how long a resolved secret may be reused across config
// reloads.
const cacheTTL = 5 * time.Minute

// IsURI reports whether s is a `vault:` secret reference.
func IsURI(s string) bool { return strings.HasPrefix(s, uriPrefix) }

//
// Client
//

// Client is safe for concurrent use.  Create once at startup.  Zero value
// is invalid; construct with New.
type Client struct {
	api   *vault.Client
	logFn func(string, ...any)

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from the standard VAULT_* environment.
func New(ctx context.Context, logFn func(string, ...any)) (*Client, error) {
	if logFn == nil {
		logFn = func(string, ...any) {}
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{
		api:   apiCli,
		logFn: logFn,
		cache: make(map[string]cached),
	}, nil
}

// Resolve turns `vault:<mount>/<path>#<key>` into the secret value stored
// at that location.  Non-URI input is returned unchanged.
func (c *Client) Resolve(ctx context.Context, uri string) (string, error) {
	if !IsURI(uri) {
		return uri, nil
	}

	ref := strings.TrimPrefix(uri, uriPrefix)
	secretPath, key, ok := strings.Cut(ref, "#")
	if !ok || secretPath == "" || key == "" {
		return "", fmt.Errorf("malformed vault URI %q (want vault:<path>#<key>)", uri)
	}
	return c.getKV(ctx, secretPath, key)
}

// getKV fetches a single key from a KV-v2 secret, consulting the TTL cache
// first.
func (c *Client) getKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	c.cacheMu.RLock()
	if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
		c.cacheMu.RUnlock()
		return cv.val, nil
	}
	c.cacheMu.RUnlock()

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	c.cacheMu.Lock()
	c.cache[canonical] = cached{val: sval, exp: time.Now().Add(cacheTTL)}
	c.cacheMu.Unlock()

	c.logFn("vault: resolved %s", canonical)
	return sval, nil
}

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
