/**
 * @description
 * HTTP handler for the nearby-vendor search. The response includes both the
 * distance-sorted vendor list and the circle polygon the map overlay draws.
 */

package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/geo"
)

const defaultVendorRadiusKm = 5.0

// NearbyVendorsHandler returns vendors within `radius_km` of `lat`/`lng`,
// optionally filtered by `category`.
func (h *PaymentHandlers) NearbyVendorsHandler(w http.ResponseWriter, r *http.Request) {
	if _, statusCode, message := h.resolveAuthenticatedInternalUserID(r); statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		h.writeError(w, http.StatusBadRequest, "Invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		h.writeError(w, http.StatusBadRequest, "Invalid lng")
		return
	}

	radiusKm := defaultVendorRadiusKm
	if raw := strings.TrimSpace(r.URL.Query().Get("radius_km")); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid radius_km")
			return
		}
	}
	if h.maxVendorRadiusKm > 0 && radiusKm > h.maxVendorRadiusKm {
		radiusKm = h.maxVendorRadiusKm
	}

	category := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("category")))

	result, err := h.service.NearbyVendors(r.Context(), geo.Point{Lat: lat, Lng: lng}, radiusKm, category)
	if err != nil {
		log.Printf("level=error component=api endpoint=nearby_vendors outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not search vendors.")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}
