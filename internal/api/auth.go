package api

import (
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strings"

	"prokat/internal/config"
)

const (
	apiKeyHeaderDefault   = "x-api-key"
	apiExtraHeaderDefault = "x-api-extra"
	permReadInventory     = "read:inventory"
	permReadReports       = "read:reports"
	permWriteInventory    = "write:inventory"
	clientKeyUnknown      = "unknown"
)

var (
	errMissingHeaders   = errors.New("missing api key headers")
	errInvalidAPIKey    = errors.New("invalid api key")
	errInvalidExtra     = errors.New("invalid extra header")
	errPermissionDenied = errors.New("permission denied")
	errRateLimited      = errors.New("rate limit exceeded")
)

// HTTPAuth provides API-key auth and per-key rate limiting for HTTP endpoints.
type HTTPAuth struct {
	cfg     config.APIConfig
	clients map[string]config.APIClientKey
	limiter *rateLimiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{
		cfg:     cfg,
		clients: m,
		limiter: newRateLimiter(cfg.RateLimit),
	}
}

// Wrap пропускает служебные пути (/healthz, /metrics) без проверки ключа.
func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		required := requiredPermission(r.URL.Path)
		if required == "" {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r, required); err != nil {
				statusCode := http.StatusUnauthorized
				if errors.Is(err, errPermissionDenied) {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if !a.limiter.allow(a.clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, errRateLimited.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request, required string) error {
	apiKey := strings.TrimSpace(r.Header.Get(a.header(a.cfg.Auth.HeaderAPIKey, apiKeyHeaderDefault)))
	extra := strings.TrimSpace(r.Header.Get(a.header(a.cfg.Auth.HeaderExtra, apiExtraHeaderDefault)))
	if apiKey == "" || extra == "" {
		return errMissingHeaders
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return errInvalidAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return errInvalidExtra
	}

	return checkPermissions(client, required)
}

// checkPermissions: пустой список прав разрешает все.
func checkPermissions(client config.APIClientKey, required string) error {
	if len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermission(path string) string {
	switch {
	case path == "/api/v1/inventory/status":
		return permWriteInventory
	case path == "/api/v1/inventory":
		return permReadInventory
	case strings.HasPrefix(path, "/api/v1/reports/"):
		return permReadReports
	case strings.HasPrefix(path, "/api/"):
		return permReadReports
	default:
		return ""
	}
}

func (a *HTTPAuth) header(configured, fallback string) string {
	h := strings.TrimSpace(strings.ToLower(configured))
	if h == "" {
		return fallback
	}
	return h
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.header(a.cfg.Auth.HeaderAPIKey, apiKeyHeaderDefault))); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return clientKeyUnknown
}
