package utils

import (
	"net/http"
	"strings"
)

// TokenFromRequest pulls an identity token from the Authorization header,
// raw or with a Bearer scheme, falling back to the "token" query parameter
// that browsers use for websocket upgrades.
func TokenFromRequest(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		scheme, rest, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
		return h
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
