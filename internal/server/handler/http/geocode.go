package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Geocoder resolves coordinates into a display address.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// GeocodeHandler proxies reverse-geocoding lookups for the report form.
type GeocodeHandler struct {
	Geo Geocoder
}

// Reverse resolves ?lat=&lon= into an address. A failed lookup answers 502;
// the form falls back to manual address entry.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		http.Error(w, "lat and lon query parameters are required", http.StatusBadRequest)
		return
	}

	address, err := h.Geo.Reverse(r.Context(), lat, lon)
	if err != nil {
		http.Error(w, "reverse geocoding unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"address": address})
}
