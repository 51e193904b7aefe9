/**
 * @description
 * HTTP handlers for the notification inbox: paginated listing with derived
 * priority tiers, unread badge counts, read-state updates and deletion.
 */

package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
)

// ListNotificationsHandler returns the caller's inbox. Every item carries a
// `priority` field computed on the way out.
func (h *PaymentHandlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
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

	typ := strings.TrimSpace(r.URL.Query().Get("type"))
	if typ != "" && !domain.KnownNotificationType(typ) {
		h.writeError(w, http.StatusBadRequest, "Invalid notification type")
		return
	}
	status := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("status")))
	if status != "" && status != "read" && status != "unread" {
		h.writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	views, err := h.service.ListNotifications(r.Context(), userID, domain.NotificationListOptions{
		Limit:  limit,
		Offset: offset,
		Type:   typ,
		Status: status,
	})
	if err != nil {
		log.Printf("level=error component=api endpoint=list_notifications outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve notifications.")
		return
	}

	h.writeJSON(w, http.StatusOK, views)
}

// UnreadCountsHandler returns badge counts per priority tier.
func (h *PaymentHandlers) UnreadCountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	counts, err := h.service.GetUnreadCounts(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=unread_counts outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve unread counts.")
		return
	}

	h.writeJSON(w, http.StatusOK, counts)
}

// MarkNotificationReadHandler marks a single notification as read.
func (h *PaymentHandlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	updated, err := h.service.MarkNotificationRead(r.Context(), userID, notificationID)
	if err != nil {
		log.Printf("level=error component=api endpoint=mark_read outcome=failed user_id=%s notification_id=%s err=%v", userID, notificationID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not update notification.")
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "Notification not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// MarkAllNotificationsReadHandler marks the caller's unread notifications as
// read, optionally scoped to one type via `?type=`.
func (h *PaymentHandlers) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	var typ *string
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		if !domain.KnownNotificationType(raw) {
			h.writeError(w, http.StatusBadRequest, "Invalid notification type")
			return
		}
		typ = &raw
	}

	count, err := h.service.MarkAllNotificationsRead(r.Context(), userID, typ)
	if err != nil {
		log.Printf("level=error component=api endpoint=mark_all_read outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not update notifications.")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

// DeleteNotificationHandler removes one of the caller's notifications.
func (h *PaymentHandlers) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, statusCode, message := h.resolveAuthenticatedInternalUserID(r)
	if statusCode != 0 {
		h.writeError(w, statusCode, message)
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	deleted, err := h.service.DeleteNotification(r.Context(), userID, notificationID)
	if err != nil {
		log.Printf("level=error component=api endpoint=delete_notification outcome=failed user_id=%s notification_id=%s err=%v", userID, notificationID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not delete notification.")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "Notification not found")
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// parseOptionalPositiveInt parses a query parameter that must be a
// non-negative integer, returning fallback when the parameter is absent.
func parseOptionalPositiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
