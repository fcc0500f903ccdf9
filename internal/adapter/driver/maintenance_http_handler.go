package driver

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alorle/iptv-portal-mock/internal/application"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

// MaintenanceHTTPHandler serves the health check and the test-support reset
// endpoint of one mock server.
type MaintenanceHTTPHandler struct {
	service *application.PortalService
	logger  *slog.Logger
	now     func() time.Time
	health  func(now time.Time) any
	reset   func(now time.Time) any
	// identity picks the account named in a /reset request, if any.
	identity func(q url.Values) (scenario.Identity, bool)
}

type stalkerHealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type xtreamHealthResponse struct {
	Status string `json:"status"`
	Server string `json:"server"`
	Port   int    `json:"port"`
}

type resetResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewStalkerMaintenanceHandler creates the maintenance handler of the Stalker
// server. Both responses carry an ISO timestamp.
func NewStalkerMaintenanceHandler(service *application.PortalService, logger *slog.Logger) *MaintenanceHTTPHandler {
	return &MaintenanceHTTPHandler{
		service: service,
		logger:  logger,
		now:     time.Now,
		health: func(now time.Time) any {
			return stalkerHealthResponse{Status: "ok", Timestamp: isoTime(now)}
		},
		reset: func(now time.Time) any {
			return resetResponse{Status: "reset", Timestamp: isoTime(now)}
		},
		identity: func(q url.Values) (scenario.Identity, bool) {
			mac := q.Get("mac")
			if mac == "" {
				return scenario.Identity{}, false
			}
			return scenario.FromMAC(mac), true
		},
	}
}

// NewXtreamMaintenanceHandler creates the maintenance handler of the Xtream
// server. The health check reports the listening port.
func NewXtreamMaintenanceHandler(service *application.PortalService, port string, logger *slog.Logger) *MaintenanceHTTPHandler {
	portNumber, _ := strconv.Atoi(port)
	return &MaintenanceHTTPHandler{
		service: service,
		logger:  logger,
		now:     time.Now,
		health: func(time.Time) any {
			return xtreamHealthResponse{Status: "ok", Server: "xtream-mock-server", Port: portNumber}
		},
		reset: func(time.Time) any {
			return resetResponse{Status: "reset"}
		},
		identity: func(q url.Values) (scenario.Identity, bool) {
			if !q.Has("username") {
				return scenario.Identity{}, false
			}
			return scenario.FromCredentials(q.Get("username"), q.Get("password")), true
		},
	}
}

// HandleHealth handles GET /health
func (h *MaintenanceHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.health(h.now()))
}

// HandleReset handles POST /reset. It drops every cached catalog and all
// favorites so a test suite can start from a clean state. With ?mac=
// (Stalker) or ?username=&password= (Xtream) only the favorites of that
// account are cleared.
func (h *MaintenanceHTTPHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if id, ok := h.identity(requestParams(r)); ok {
		if err := h.service.ResetFavorites(r.Context(), id); err != nil {
			h.logger.Error("favorites reset failed", "protocol", h.service.Protocol(), "identity", id.Label, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		h.logger.Info("favorites reset", "protocol", h.service.Protocol(), "identity", id.Label)
		writeJSON(w, http.StatusOK, h.reset(h.now()))
		return
	}

	if err := h.service.ResetAll(r.Context()); err != nil {
		h.logger.Error("reset failed", "protocol", h.service.Protocol(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, h.reset(h.now()))
}
