package controllers

import (
	"net/http"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
	pkgredis "github.com/luphonix/retailops-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RetailOps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RetailOps-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		probe := func(name string, ping func() error) {
			if ping == nil {
				checks[name] = "skipped"
				return
			}
			if err := ping(); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "readiness check failed", err)
				}
				return
			}
			checks[name] = "ok"
		}

		if dbP != nil {
			probe("database", func() error { return dbP.Ping(r.Context()) })
		} else {
			probe("database", nil)
		}
		if redisP != nil {
			probe("redis", func() error { return redisP.Ping(r.Context()) })
		} else {
			probe("redis", nil)
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
