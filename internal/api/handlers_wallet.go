/**
 * @description
 * HTTP handlers for the wallet and payment endpoints: balance reads, the
 * confirm step of the payment wizard (rent and vendor services), internal
 * bucket credits, and payment history.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/app"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/ledger"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/store"
)

// GetWalletHandler returns the caller's bucket balances. An optional
// `amount_due` query parameter sizes the wallet-usage slider for that amount.
func (h *PaymentHandlers) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	var amountDue int64
	if raw := strings.TrimSpace(r.URL.Query().Get("amount_due")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid amount_due")
			return
		}
		amountDue = parsed
	}

	view, err := h.service.GetWallet(r.Context(), userID, amountDue)
	if err != nil {
		log.Printf("level=error component=api endpoint=get_wallet outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve wallet.")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// PayRentHandler confirms a rent payment.
func (h *PaymentHandlers) PayRentHandler(w http.ResponseWriter, r *http.Request) {
	h.confirmPayment(w, r, domain.PaymentCategoryRent)
}

// PayServiceHandler confirms a vendor-service payment.
func (h *PaymentHandlers) PayServiceHandler(w http.ResponseWriter, r *http.Request) {
	h.confirmPayment(w, r, domain.PaymentCategoryService)
}

func (h *PaymentHandlers) confirmPayment(w http.ResponseWriter, r *http.Request, category string) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	var payload domain.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	result, err := h.service.ConfirmPayment(r.Context(), userID, category, payload, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			// Only reachable by a buggy client; the wizard validates the
			// amount before the confirm step.
			h.writeError(w, http.StatusBadRequest, "Payment amount must be positive.")
		case errors.Is(err, app.ErrDuplicatePayment):
			h.writeError(w, http.StatusConflict, "This payment attempt was already processed.")
		default:
			log.Printf("level=error component=api endpoint=confirm_payment outcome=failed user_id=%s category=%s err=%v", userID, category, err)
			h.writeError(w, http.StatusInternalServerError, "Could not process payment.")
		}
		return
	}

	log.Printf("level=info component=api endpoint=confirm_payment outcome=ok user_id=%s payment_id=%s amount=%d wallet_used=%d cashback=%d",
		userID, result.Payment.ID, result.Payment.Amount, result.Payment.WalletUsed, result.Payment.CashbackEarned)
	h.writeJSON(w, http.StatusOK, result)
}

// CreditWalletHandler applies an internal bucket credit. It is mounted on the
// internal route group, not on the user-facing API.
func (h *PaymentHandlers) CreditWalletHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.WalletCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	wallet, err := h.service.CreditWallet(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCreditAmount), errors.Is(err, store.ErrInvalidBucket):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("level=error component=api endpoint=credit_wallet outcome=failed user_id=%s err=%v", payload.UserID, err)
			h.writeError(w, http.StatusInternalServerError, "Could not credit wallet.")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, wallet)
}

// ListPaymentsHandler returns the caller's payment history.
func (h *PaymentHandlers) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	limit, err := parseOptionalPositiveInt(r.URL.Query().Get("limit"), 50)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, err := parseOptionalPositiveInt(r.URL.Query().Get("offset"), 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid offset")
		return
	}
	category := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("category")))
	if category != "" && category != domain.PaymentCategoryRent && category != domain.PaymentCategoryService {
		h.writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	payments, err := h.service.ListPayments(r.Context(), userID, domain.PaymentListOptions{
		Limit:    limit,
		Offset:   offset,
		Category: category,
	})
	if err != nil {
		log.Printf("level=error component=api endpoint=list_payments outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve payments.")
		return
	}

	h.writeJSON(w, http.StatusOK, payments)
}
