package driver

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewStalkerMux wires the Stalker portal endpoints. The portal is reachable
// under the paths used by common set-top box firmwares.
func NewStalkerMux(portal *StalkerHTTPHandler, maintenance *MaintenanceHTTPHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/portal.php", portal)
	mux.Handle("/c/portal.php", portal)
	mux.Handle("/server/load.php", portal)
	mux.Handle("/stalker_portal/server/load.php", portal)
	mux.HandleFunc("/stalker", portal.ServeProxy)
	mux.HandleFunc("/health", maintenance.HandleHealth)
	mux.HandleFunc("/reset", maintenance.HandleReset)
	mux.Handle("/metrics", promhttp.Handler())

	return CORS(RequestLogging(logger, portal.service.Protocol(), mux))
}

// NewXtreamMux wires the Xtream player API, its stream stubs, the playlist
// export and the maintenance endpoints.
func NewXtreamMux(api *XtreamHTTPHandler, maintenance *MaintenanceHTTPHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/player_api.php", api)
	mux.HandleFunc("/xtream", api.ServeProxy)
	mux.HandleFunc("/live/", api.ServeStream)
	mux.HandleFunc("/movie/", api.ServeStream)
	mux.HandleFunc("/series/", api.ServeStream)
	mux.HandleFunc("/get.php", api.ServePlaylist)
	mux.HandleFunc("/health", maintenance.HandleHealth)
	mux.HandleFunc("/reset", maintenance.HandleReset)
	mux.Handle("/metrics", promhttp.Handler())

	return CORS(RequestLogging(logger, api.service.Protocol(), mux))
}
