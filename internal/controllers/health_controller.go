package controllers

import (
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/app"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/dtos"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(a *app.App) *HealthController {
	return &HealthController{app: a}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// Probe the only hard dependency, the entity store.
	if err := c.app.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("entity store unhealthy")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Service unhealthy",
			nil,
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "OK"})
}
