/**
 * @description
 * This file sets up the HTTP router for the payment-service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies middleware for logging, panic recovery, CORS and authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for the mobile/web clients.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// PaymentRoutes creates and returns the router for the payment service.
// internalKey guards the server-to-server wallet credit endpoint.
func PaymentRoutes(h *PaymentHandlers, jwksURL, internalKey string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Internal-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(ClerkAuthMiddleware(jwksURL))

		// Wallet and payment endpoints.
		r.Get("/wallet", h.GetWalletHandler)
		r.Post("/wallet/pay", h.PayRentHandler)
		r.Post("/wallet/pay-service", h.PayServiceHandler)
		r.Get("/payments", h.ListPaymentsHandler)

		// Notification inbox endpoints.
		r.Get("/notifications", h.ListNotificationsHandler)
		r.Get("/notifications/unread-counts", h.UnreadCountsHandler)
		r.Put("/notifications/{notificationID}/read", h.MarkNotificationReadHandler)
		r.Put("/notifications/read-all", h.MarkAllNotificationsReadHandler)
		r.Delete("/notifications/{notificationID}", h.DeleteNotificationHandler)

		// Vendor discovery for the service-payment flow.
		r.Get("/vendors/nearby", h.NearbyVendorsHandler)
	})

	// Server-to-server endpoints (referral bonuses, owner discount grants).
	r.Route("/internal/wallet", func(r chi.Router) {
		r.Use(InternalAuthMiddleware(internalKey))
		r.Post("/credit", h.CreditWalletHandler)
	})

	return r
}
