package controllers

import (
	"net/http"

	"github.com/thiwankabandara/giftonline-backend/api/responses"
	"github.com/thiwankabandara/giftonline-backend/pkg/config"
)

func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GiftOnline-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
