package controllers

import (
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type NotificationController struct {
	notifyService *notify.Service
}

func NewNotificationController(ns *notify.Service) *NotificationController {
	return &NotificationController{notifyService: ns}
}

// ----------------------------------------------------------------
// GET /api/v1/notifications
// ----------------------------------------------------------------
func (c *NotificationController) ListMyNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := c.notifyService.ListForAgent(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, "Could not list notifications")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}
