package feed

import (
    "sync"

    "coldsim/internal/model"
)

// LatestLocation holds the last GPS fix seen for a shipment.
type LatestLocation struct {
    ShipmentID string  `json:"shipmentId"`
    SensorID   string  `json:"sensorId"`
    Lat        float64 `json:"lat"`
    Lng        float64 `json:"lng"`
    Location   string  `json:"location"`
    TS         string  `json:"ts"`
}

// LocationCache stores the latest location per shipment, fed from GPS
// readings as they stream through the emitter.
type LocationCache struct {
    mu sync.Mutex
    m  map[string]LatestLocation // shipmentId -> latest fix
}

func NewLocationCache() *LocationCache { return &LocationCache{m: map[string]LatestLocation{}} }

// Observe records a location reading; other sensor types are ignored.
func (c *LocationCache) Observe(r model.Reading) {
    if r.SensorType != model.SensorLocation || r.ShipmentID == "" {
        return
    }
    c.mu.Lock()
    defer c.mu.Unlock()
    c.m[r.ShipmentID] = LatestLocation{
        ShipmentID: r.ShipmentID,
        SensorID:   r.SensorID,
        Lat:        r.Coord.Lat,
        Lng:        r.Coord.Lng,
        Location:   r.Location,
        TS:         r.TS.UTC().Format("2006-01-02T15:04:05Z07:00"),
    }
}

// Get returns the latest fix for a shipment, if any.
func (c *LocationCache) Get(shipmentID string) (LatestLocation, bool) {
    c.mu.Lock()
    defer c.mu.Unlock()
    l, ok := c.m[shipmentID]
    return l, ok
}
