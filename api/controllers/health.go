package controllers

import (
	"net/http"

	"github.com/angelmondragon/prosemirror-api/api/responses"
	"github.com/angelmondragon/prosemirror-api/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}
