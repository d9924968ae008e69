package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/scheduler"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`

	Driver     string                 `json:"driver,omitempty"`
	File       string                 `json:"file,omitempty"`
	Runs       *int                   `json:"runs,omitempty"`
	LastImport *scheduler.ImportStats `json:"last_import,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"database": checkDatabase(r.Context(), d),
			"redis":    checkRedis(r.Context(), d),
			"importer": importerStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}, d.Logger)
	}
}

func determineMode(components map[string]componentStatus) string {
	// No database = nothing works
	if db, ok := components["database"]; ok && !db.OK {
		return "critical"
	}

	// Redis down = duplicate race is back, shares still work
	if redis, ok := components["redis"]; ok && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "operational"
}

func checkDatabase(parent context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := d.Database.Ping(ctx); err != nil {
		return componentStatus{OK: false, Driver: d.DBDriver, Error: "unreachable"}
	}
	return componentStatus{OK: true, Driver: d.DBDriver}
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.Redis == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "share-guard-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := d.Redis.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "share-guard-bypassed",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "share-guard-enabled",
	}
}

func importerStatus(d deps.Deps) componentStatus {
	if d.Importer == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}

	last, runs := d.Importer.Stats()
	status := componentStatus{
		OK:   last.Error == "",
		Mode: "scheduled",
		File: d.Importer.File(),
		Runs: &runs,
	}
	if runs > 0 {
		status.LastImport = &last
		status.Error = last.Error
	}
	return status
}
