package store

import (
    "context"
    "errors"
    "time"

    "coldsim/internal/model"
)

// Store is the persistence collaborator interface. The engine never calls
// it directly; the feed emitter forwards readings and journey snapshots
// best-effort, and the anchor worker drives the delivery queue through it.
type Store interface {
    // Journeys
    SaveJourney(ctx context.Context, j model.Journey) error
    GetJourney(ctx context.Context, shipmentID string) (model.Journey, error)
    ListJourneys(ctx context.Context, cursor string, limit int) ([]model.Journey, string, error)

    // Readings (append-only)
    InsertReading(ctx context.Context, r model.Reading) error
    ListReadings(ctx context.Context, shipmentID, cursor string, limit int) ([]model.Reading, string, error)

    // Ledger anchor delivery queue
    EnqueueAnchor(ctx context.Context, shipmentID, eventType string, payload []byte) (string, error)
    FetchDueAnchors(ctx context.Context, limit int) ([]AnchorDelivery, error)
    MarkAnchor(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
    FailAnchor(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
}

// AnchorDelivery is one pending/retrying ledger anchor submission.
type AnchorDelivery struct {
    ID         string
    ShipmentID string
    EventType  string
    Payload    []byte
    Status     string // pending, retry, anchored, failed
    Attempts   int
}

var ErrNotFound = errors.New("not found")
