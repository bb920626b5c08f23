package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/notification"
)

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Data      any    `json:"data"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// NotificationHandler handles the notification inbox endpoints.
type NotificationHandler struct {
	repo notification.Repository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(repo notification.Repository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// List handles GET /notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	notifications, err := h.repo.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err, "userId", identity.UserID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications", requestID)
		return
	}

	items := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		items = append(items, notificationResponse{
			ID:        n.ID.String(),
			Type:      n.Type,
			Data:      n.Data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.MarkRead(r.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", requestID)
			return
		}
		slog.Error("failed to mark notification read", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update notification", requestID)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /notifications/{id}.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", requestID)
			return
		}
		slog.Error("failed to delete notification", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete notification", requestID)
		return
	}

	response.NoContent(w)
}
