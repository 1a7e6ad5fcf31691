package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves liveness when checks is empty and readiness otherwise.
// Each check runs with timeout; any failure answers 503.
func HealthHandler(log *slog.Logger, timeout time.Duration, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	log = log.With(logger.Component("health"))

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
			for name, check := range checks {
				ctx, cancel := context.WithTimeout(r.Context(), timeout)
				err := check(ctx)
				cancel()
				if err != nil {
					log.WarnContext(r.Context(), "readiness check failed",
						slog.String("check", name),
						logger.Error(err),
					)
					resp.Checks[name] = "failing"
					resp.Status = "unavailable"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}

		if err := handler.JSON(resp, handler.WithJSONStatus(status)).Render(w, r); err != nil {
			log.ErrorContext(r.Context(), "failed to write health response", logger.Error(err))
		}
	}
}
