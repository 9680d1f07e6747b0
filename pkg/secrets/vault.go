// Package secrets loads sensitive configuration (database and cache
// credentials, API keys) from a HashiCorp Vault KV store into the process
// environment before the config package reads it. It is entirely optional:
// without VAULT_ENABLED=true it does nothing.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecretPath = "carefinder/api"

// Result reports what a Load call did.
type Result struct {
	Enabled bool
	Path    string
	Loaded  int
	Skipped int
}

type vaultSettings struct {
	enabled   bool
	addr      string
	token     string
	mount     string
	path      string
	kvVersion int
	timeout   time.Duration
	overwrite bool
}

func settingsFromEnv() vaultSettings {
	s := vaultSettings{
		enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		addr:      os.Getenv("VAULT_ADDR"),
		token:     os.Getenv("VAULT_TOKEN"),
		mount:     os.Getenv("VAULT_MOUNT"),
		path:      os.Getenv("VAULT_PATH"),
		kvVersion: 2,
		timeout:   5 * time.Second,
	}
	if s.mount == "" {
		s.mount = "secret"
	}
	if s.path == "" {
		s.path = defaultSecretPath
	}
	if v := os.Getenv("VAULT_KV_VERSION"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			s.kvVersion = parsed
		}
	}
	if v := os.Getenv("VAULT_TIMEOUT_MS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			s.timeout = time.Duration(parsed) * time.Millisecond
		}
	}
	s.overwrite = strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true")
	return s
}

// Load fetches the secret document configured through VAULT_* environment
// variables and exports each key into the environment. Keys that are already
// set are kept unless VAULT_OVERWRITE=true.
func Load(ctx context.Context) (Result, error) {
	s := settingsFromEnv()
	if !s.enabled {
		return Result{}, nil
	}

	result := Result{Enabled: true, Path: s.path}

	if s.addr == "" || s.token == "" {
		return result, errors.New("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN)")
	}

	data, err := fetchSecretData(ctx, s)
	if err != nil {
		return result, err
	}

	for key, value := range data {
		if !s.overwrite && os.Getenv(key) != "" {
			result.Skipped++
			continue
		}
		if err := os.Setenv(key, stringifyValue(value)); err != nil {
			return result, err
		}
		result.Loaded++
	}
	return result, nil
}

func fetchSecretData(ctx context.Context, s vaultSettings) (map[string]interface{}, error) {
	url, err := secretURL(s)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", s.token)

	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vault fetch failed: %s %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	// KV v2 wraps the secret in a second data envelope.
	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		return nil, errors.New("vault response missing data")
	}
	if s.kvVersion == 1 {
		return data, nil
	}
	inner, ok := data["data"].(map[string]interface{})
	if !ok {
		return nil, errors.New("vault response missing data for KV v2")
	}
	return inner, nil
}

func secretURL(s vaultSettings) (string, error) {
	addr := strings.TrimRight(s.addr, "/")
	mount := strings.Trim(s.mount, "/")
	path := strings.TrimLeft(s.path, "/")
	if addr == "" || mount == "" || path == "" {
		return "", errors.New("vault address, mount, and path must be set")
	}
	if s.kvVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path), nil
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path), nil
}

func stringifyValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
