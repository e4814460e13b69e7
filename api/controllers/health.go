package controllers

import (
	"net/http"

	"github.com/shopworks/catalog-backend/api/responses"
	"github.com/shopworks/catalog-backend/pkg/config"
	"github.com/shopworks/catalog-backend/pkg/db"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/logger"
	pkgredis "github.com/shopworks/catalog-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				checks["database"] = err.Error()
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
					WithDetails(map[string]any{"checks": checks}))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
