// internal/server/health.go
package server

import (
	"net/http"
	"runtime"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONRaw(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"service":     s.cfg.App.Name,
		"version":     s.cfg.App.Version,
		"environment": s.cfg.App.Environment,
		"uptime":      time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	templatesStatus := "healthy"
	available := []string{}
	if descriptors, err := s.catalog.List(); err != nil {
		templatesStatus = "error"
	} else {
		for _, d := range descriptors {
			available = append(available, d.Name)
		}
	}

	authStatus := "configured"
	if s.cfg.Auth.Token == "" {
		authStatus = "not_configured"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s.writeJSONRaw(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"service":     s.cfg.App.Name,
		"version":     s.cfg.App.Version,
		"environment": s.cfg.App.Environment,
		"uptime":      time.Since(s.started).Seconds(),
		"system": map[string]interface{}{
			"memory": map[string]interface{}{
				"heapAllocMB": float64(mem.HeapAlloc) / (1 << 20),
				"heapSysMB":   float64(mem.HeapSys) / (1 << 20),
			},
			"goroutines": runtime.NumGoroutine(),
		},
		"components": map[string]interface{}{
			"templates": map[string]interface{}{
				"status":    templatesStatus,
				"available": available,
				"count":     len(available),
			},
			"auth": map[string]interface{}{
				"status": authStatus,
			},
		},
	})
}

// handleReady reports whether the service can accept traffic: templates
// directory readable and a token configured.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.catalog.List(); err != nil {
		s.writeJSONRaw(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"reason": "templates directory not accessible",
		})
		return
	}
	if s.cfg.Auth.Token == "" {
		s.writeJSONRaw(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"reason": "API token not configured",
		})
		return
	}

	s.writeJSONRaw(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
