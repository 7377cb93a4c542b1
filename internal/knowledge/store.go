package knowledge

import (
	"sync"
	"sync/atomic"

	"medibot/internal/common/logger"
	"medibot/internal/common/metrics"
)

// Store publishes the current Snapshot. Readers never block; Reload builds a
// complete new snapshot and swaps the pointer, so a request that fetched a
// snapshot keeps seeing that one until it finishes.
type Store struct {
	loader  *Loader
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes Reload
	log     logger.Logger
}

// NewStore loads the initial snapshot through loader.
func NewStore(loader *Loader, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Store{loader: loader, log: log}
	s.Reload()
	return s
}

// NewStaticStore serves snap and never reloads.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{log: logger.NewNoOpLogger()}
	s.current.Store(snap)
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload rebuilds the snapshot from disk and publishes it.
func (s *Store) Reload() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loader == nil {
		return s.current.Load()
	}

	snap := s.loader.Load(s.current.Load())
	s.current.Store(snap)

	result := "ok"
	for _, src := range snap.Sources {
		if src.Fallback || src.Stale {
			result = "degraded"
		}
	}
	metrics.KnowledgeReloads.WithLabelValues(result).Inc()
	metrics.KnowledgeEntries.WithLabelValues(TableSymptoms).Set(float64(len(snap.Symptoms)))
	metrics.KnowledgeEntries.WithLabelValues(TableTopics).Set(float64(len(snap.Topics)))

	s.log.Info("Knowledge snapshot published", map[string]interface{}{
		"symptoms": len(snap.Symptoms),
		"topics":   len(snap.Topics),
		"result":   result,
		"sources":  snap.Sources,
	})
	return snap
}
