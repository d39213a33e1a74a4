package store

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"

    "coldsim/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
    mu       sync.Mutex
    journeys map[string]model.Journey // shipmentId -> latest snapshot
    order    []string                 // shipment ids in first-save order
    readings map[string][]model.Reading // shipmentId -> append-only readings

    // Anchor queue state
    anchors     map[string]*memAnchor // id -> delivery state
    anchorOrder []string
}

func NewMemory() *Memory {
    return &Memory{
        journeys: map[string]model.Journey{},
        readings: map[string][]model.Reading{},
        anchors:  map[string]*memAnchor{},
    }
}

// memAnchor augments AnchorDelivery with scheduling/metrics
type memAnchor struct {
    AnchorDelivery
    NextAttemptAt time.Time
    LastError     string
    ResponseCode  int
    LatencyMs     int
    AnchoredAt    *time.Time
}

func (m *Memory) SaveJourney(ctx context.Context, j model.Journey) error {
    m.mu.Lock(); defer m.mu.Unlock()
    if _, ok := m.journeys[j.ShipmentID]; !ok {
        m.order = append(m.order, j.ShipmentID)
    }
    m.journeys[j.ShipmentID] = j
    return nil
}

func (m *Memory) GetJourney(ctx context.Context, shipmentID string) (model.Journey, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    j, ok := m.journeys[shipmentID]
    if !ok { return model.Journey{}, ErrNotFound }
    return j, nil
}

func (m *Memory) ListJourneys(ctx context.Context, cursor string, limit int) ([]model.Journey, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    start := 0
    if cursor != "" {
        for i, id := range m.order {
            if id == cursor { start = i + 1; break }
        }
    }
    if limit <= 0 { limit = 100 }
    out := []model.Journey{}
    var next string
    for i := start; i < len(m.order) && len(out) < limit; i++ {
        out = append(out, m.journeys[m.order[i]])
        next = m.order[i]
    }
    if start+len(out) >= len(m.order) { next = "" }
    return out, next, nil
}

func (m *Memory) InsertReading(ctx context.Context, r model.Reading) error {
    m.mu.Lock(); defer m.mu.Unlock()
    m.readings[r.ShipmentID] = append(m.readings[r.ShipmentID], r)
    return nil
}

func (m *Memory) ListReadings(ctx context.Context, shipmentID, cursor string, limit int) ([]model.Reading, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    list := m.readings[shipmentID]
    start := 0
    if cursor != "" {
        for i := range list { if list[i].ID == cursor { start = i + 1; break } }
    }
    if limit <= 0 { limit = 100 }
    end := start + limit
    if end > len(list) { end = len(list) }
    out := append([]model.Reading{}, list[start:end]...)
    var next string
    if end < len(list) && len(out) > 0 { next = out[len(out)-1].ID }
    return out, next, nil
}

func (m *Memory) EnqueueAnchor(ctx context.Context, shipmentID, eventType string, payload []byte) (string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    id := uuid.New().String()
    d := &memAnchor{AnchorDelivery: AnchorDelivery{ID: id, ShipmentID: shipmentID, EventType: eventType, Payload: payload, Status: "pending", Attempts: 0}, NextAttemptAt: time.Now()}
    m.anchors[id] = d
    m.anchorOrder = append(m.anchorOrder, id)
    return id, nil
}

func (m *Memory) FetchDueAnchors(ctx context.Context, limit int) ([]AnchorDelivery, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    now := time.Now()
    out := []AnchorDelivery{}
    for _, id := range m.anchorOrder {
        d := m.anchors[id]
        if d == nil { continue }
        if (d.Status == "pending" || d.Status == "retry") && !d.NextAttemptAt.After(now) {
            out = append(out, d.AnchorDelivery)
            if limit > 0 && len(out) >= limit { break }
        }
    }
    return out, nil
}

func (m *Memory) MarkAnchor(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
    m.mu.Lock(); defer m.mu.Unlock()
    d := m.anchors[id]
    if d == nil { return nil }
    d.Attempts++
    d.ResponseCode = responseCode
    d.LatencyMs = latencyMs
    if success {
        d.Status = "anchored"
        now := time.Now()
        d.AnchoredAt = &now
    } else {
        d.Status = "retry"
        d.LastError = lastError
        if nextAttemptAt != nil { d.NextAttemptAt = *nextAttemptAt } else { d.NextAttemptAt = time.Now().Add(1 * time.Minute) }
    }
    return nil
}

func (m *Memory) FailAnchor(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
    m.mu.Lock(); defer m.mu.Unlock()
    d := m.anchors[id]
    if d != nil {
        d.Status = "failed"
        d.LastError = lastError
        d.ResponseCode = responseCode
        d.LatencyMs = latencyMs
    }
    return nil
}

// AnchorStatus reports the queue status of one delivery; test helper and
// debug surface.
func (m *Memory) AnchorStatus(id string) (string, int, bool) {
    m.mu.Lock(); defer m.mu.Unlock()
    d := m.anchors[id]
    if d == nil { return "", 0, false }
    return d.Status, d.Attempts, true
}
