package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency for the readiness probe.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AssetDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency and fails when any of them does.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AssetDesk-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var combined error
		status := map[string]string{}
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				combined = multierr.Append(combined, fmt.Errorf("%s: %w", check.Name, err))
				status[check.Name] = "down"
				continue
			}
			status[check.Name] = "up"
		}

		if combined != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable").WithDetails(status))
			return
		}

		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
