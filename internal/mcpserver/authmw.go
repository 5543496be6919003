// Bearer auth for the HTTP transport.
// Reads Authorization: Bearer <credential> and accepts either a JWT issued by
// `rolodex token` or the raw API key matching the configured bcrypt hash.
package mcpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	pkgauth "github.com/matiasleandrokruk/rolodex/pkg/auth"
)

// BearerAuth validates the Bearer credential on every request.
//
// Flow:
//  1. With no hash configured and no signing secret set, auth is disabled
//     and every request passes through (logged once per request)
//  2. Read "Authorization: Bearer <credential>" header
//  3. Reject if missing or not Bearer scheme → 401
//  4. Accept a valid JWT when a signing secret is configured
//  5. Otherwise accept the credential as an API key against apiKeyHash
func BearerAuth(apiKeyHash string, lg *slog.Logger) func(http.Handler) http.Handler {
	if lg == nil {
		lg = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKeyHash == "" && !pkgauth.SecretConfigured() {
				lg.Warn("no credential source configured, serving unauthenticated", "remote", r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}

			credential := extractBearerToken(r)
			if credential == "" {
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			if !credentialValid(apiKeyHash, credential) {
				lg.Warn("rejected bearer credential", "remote", r.RemoteAddr)
				writeUnauthorized(w, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func credentialValid(apiKeyHash, credential string) bool {
	if pkgauth.SecretConfigured() {
		if _, err := pkgauth.ParseToken(credential); err == nil {
			return true
		}
	}
	return apiKeyHash != "" && pkgauth.VerifyAPIKey(apiKeyHash, credential)
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns empty string if header is missing, wrong scheme, or token is empty.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	// Must start with "Bearer " (case-sensitive per RFC 7235)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// writeUnauthorized writes a 401 JSON response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
