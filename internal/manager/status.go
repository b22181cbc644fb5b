package manager

import (
	"time"

	"classifid/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{RuntimeState: m.gate.state(), Err: m.lastErr}
	if m.resident != nil {
		s.ResidentModel = m.resident.name
	}
	return s
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	snap := m.Snapshot()
	state := "idle"
	if snap.ResidentModel != "" {
		state = "ready"
	}
	if snap.Err != "" {
		state = "error"
	}
	now := time.Now()
	return types.StatusResponse{
		State:            state,
		RuntimeState:     snap.RuntimeState,
		ResidentModel:    snap.ResidentModel,
		LastError:        snap.Err,
		LoadsTotal:       m.loadsTotal.Load(),
		PredictionsTotal: m.predictionsTotal.Load(),
		CacheHitsTotal:   m.cacheHitsTotal.Load(),
		CacheMissesTotal: m.cacheMissesTotal.Load(),
		UptimeSeconds:    int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
}
