/**
 * @description
 * This file contains the HTTP handler plumbing for the payment-service's API
 * endpoints. Handlers parse incoming requests, call the application service,
 * and write the HTTP response; they are the bridge between the web layer and
 * the business logic layer.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/app: For service logic.
 */

package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/app"
)

// PaymentHandlers holds the application service that handlers will use.
type PaymentHandlers struct {
	service *app.Service
	// maxVendorRadiusKm caps the vendor search radius a client may request;
	// zero means uncapped.
	maxVendorRadiusKm float64
}

// NewPaymentHandlers creates the handler set.
func NewPaymentHandlers(service *app.Service, maxVendorRadiusKm float64) *PaymentHandlers {
	return &PaymentHandlers{service: service, maxVendorRadiusKm: maxVendorRadiusKm}
}

// resolveAuthenticatedInternalUserID maps the Clerk subject on the request
// context to the internal user UUID. A non-zero status code signals that the
// caller should write the paired error message and stop.
func (h *PaymentHandlers) resolveAuthenticatedInternalUserID(r *http.Request) (uuid.UUID, int, string) {
	clerkUserID, ok := GetClerkUserID(r.Context())
	if !ok {
		return uuid.Nil, http.StatusUnauthorized, "User not authenticated"
	}
	userID, err := h.service.ResolveInternalUserID(r.Context(), clerkUserID)
	if err != nil {
		return uuid.Nil, http.StatusNotFound, "User account not found"
	}
	return userID, 0, ""
}

// writeJSON is a helper for writing JSON responses.
func (h *PaymentHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *PaymentHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
