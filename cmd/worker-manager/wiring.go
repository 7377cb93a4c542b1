package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medibot/internal/common/config"
	"medibot/internal/triage"
)

// buildResponder applies the emergency section of cfg on top of the
// built-in vocabulary. Empty values keep the defaults.
func buildResponder(cfg *config.Config, source triage.SnapshotSource) *triage.Responder {
	var opts []triage.Option

	if len(cfg.Emergency.Keywords) > 0 || len(cfg.Emergency.Tiers) > 0 {
		tiers := make(map[triage.Severity][]string, len(cfg.Emergency.Tiers))
		for name, phrases := range cfg.Emergency.Tiers {
			tiers[triage.Severity(name)] = phrases
		}
		opts = append(opts, triage.WithDetector(triage.NewEmergencyDetector(cfg.Emergency.Keywords, tiers)))
	}

	if len(cfg.Emergency.Contacts) > 0 {
		contacts := make([]triage.Contact, 0, len(cfg.Emergency.Contacts))
		for _, c := range cfg.Emergency.Contacts {
			contacts = append(contacts, triage.Contact{Region: c.Region, Number: c.Number})
		}
		opts = append(opts, triage.WithContacts(contacts))
	}

	return triage.NewResponder(source, opts...)
}

func newServerMux(source triage.SnapshotSource) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()
		if snap == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "loading",
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}

		status := "ready"
		for _, src := range snap.Sources {
			if src.Fallback || src.Stale {
				status = "degraded"
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    status,
			"time":      time.Now().Format(time.RFC3339),
			"loadedAt":  snap.LoadedAt.UTC().Format(time.RFC3339),
			"knowledge": snap.Sources,
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
