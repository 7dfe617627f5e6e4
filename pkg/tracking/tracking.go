package tracking

import "net/http"

// Tracking receives behavioral events from the catalog api. Implementations
// must tolerate being called from request goroutines; a nil Tracking is
// allowed everywhere and means tracking is disabled.
type Tracking interface {
	TrackSession(sessionId int, r *http.Request) error
	TrackSearch(sessionId int, query string) error
	TrackFilter(sessionId int, category string, subCategory string) error
	TrackClick(sessionId int, sku string) error
}
