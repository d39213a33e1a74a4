package api

import (
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "coldsim/internal/buildinfo"
    "coldsim/internal/feed"
    "coldsim/internal/sim"
)

// MonitorHandler handles POST /v1/monitor: start watching a shipment.
func (s *Server) MonitorHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req struct {
        ShipmentID  string `json:"shipmentId"`
        Product     string `json:"product"`
        Origin      string `json:"origin"`
        Destination string `json:"destination"`
    }
    if err := decodeJSON(r, &req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
        return
    }
    if req.ShipmentID == "" {
        writeProblem(w, http.StatusBadRequest, "Missing shipmentId", "", r.URL.Path)
        return
    }
    j, err := s.Scheduler.StartMonitoring(req.ShipmentID, req.Product, req.Origin, req.Destination)
    if errors.Is(err, sim.ErrExists) {
        writeProblem(w, http.StatusConflict, "Already monitored", req.ShipmentID, r.URL.Path)
        return
    }
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "Start failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusCreated, j)
}

// MonitorByIDHandler handles DELETE /v1/monitor/{shipmentId}: stop
// watching. Idempotent; stopping an unknown shipment still returns 204.
func (s *Server) MonitorByIDHandler(w http.ResponseWriter, r *http.Request) {
    id := strings.TrimPrefix(r.URL.Path, "/v1/monitor/")
    if id == "" || strings.Contains(id, "/") {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
        return
    }
    if r.Method != http.MethodDelete {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    s.Scheduler.StopMonitoring(id)
    w.WriteHeader(http.StatusNoContent)
}

// JourneysHandler handles GET /v1/journeys: snapshot of every journey.
func (s *Server) JourneysHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"journeys": s.Engine.ListJourneys()})
}

// JourneyByIDHandler handles GET /v1/journeys/{id} plus the /feed,
// /location, and /readings subresources.
func (s *Server) JourneyByIDHandler(w http.ResponseWriter, r *http.Request) {
    rest := strings.TrimPrefix(r.URL.Path, "/v1/journeys/")
    if rest == r.URL.Path || rest == "" {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
        return
    }
    parts := strings.Split(rest, "/")
    id := parts[0]
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }

    if len(parts) > 1 {
        switch parts[1] {
        case "feed":
            feed.ServeShipmentFeed(s.Broker, id, w, r)
        case "location":
            l, ok := s.Loc.Get(id)
            if !ok {
                writeProblem(w, http.StatusNotFound, "No location", id, r.URL.Path)
                return
            }
            writeJSON(w, http.StatusOK, l)
        case "readings":
            cursor := r.URL.Query().Get("cursor")
            limit := 200
            if v := r.URL.Query().Get("limit"); v != "" {
                if n, err := strconv.Atoi(v); err == nil { limit = n }
            }
            items, next, err := s.Store.ListReadings(r.Context(), id, cursor, limit)
            if err != nil {
                writeProblem(w, http.StatusInternalServerError, "List readings failed", err.Error(), r.URL.Path)
                return
            }
            writeJSON(w, http.StatusOK, map[string]any{"readings": items, "nextCursor": next})
        default:
            writeProblem(w, http.StatusNotFound, "Not Found", parts[1], r.URL.Path)
        }
        return
    }

    j, err := s.Engine.GetJourney(id)
    if errors.Is(err, sim.ErrNotFound) {
        writeProblem(w, http.StatusNotFound, "Journey not found", id, r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, j)
}

// HealthHandler reports liveness plus build info.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]any{
        "status": "ok",
        "build":  buildinfo.Info(),
        "time":   time.Now().UTC().Format(time.RFC3339),
    })
}

// ReadyHandler reports readiness; the engine has no warm-up, so this is
// the same as liveness unless a postgres store is still unreachable.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
