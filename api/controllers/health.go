package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/carbonlabs/carbon-backend/api/responses"
	"github.com/carbonlabs/carbon-backend/pkg/config"
	"github.com/carbonlabs/carbon-backend/pkg/logger"
)

const readyCheckTimeout = 3 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Carbon-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency; a single failure flips the
// response to 503 with the failing component named.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Carbon-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		status := map[string]string{"status": "ready"}
		code := http.StatusOK
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				status["status"] = "degraded"
				status[name] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}

		responses.WriteSuccessStatus(w, code, status)
	}
}
