package common

import (
	"net/http"
)

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

// DefaultHeaders sets the response headers shared by all catalog endpoints.
// maxAge of "0" disables shared caching for session scoped responses.
func DefaultHeaders(w http.ResponseWriter, r *http.Request, cache bool, maxAge string) {
	w.Header().Set("Content-Type", "application/json")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if cache {
		w.Header().Set("Cache-Control", "public, stale-while-revalidate="+maxAge)
	} else {
		w.Header().Set("Cache-Control", "private, no-store")
	}
	w.Header().Set("Age", "0")
}
