package anchor

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"

    "coldsim/internal/store"
)

// Publisher enqueues ledger anchor submissions. Nothing is sent inline;
// the worker drains the queue so a slow or dead ledger gateway never
// touches the simulation path.
type Publisher struct {
    Store store.Store
}

func NewPublisher(s store.Store) *Publisher {
    return &Publisher{Store: s}
}

// Emit queues one event for anchoring. The envelope carries processing
// bookkeeping the ledger side echoes back on audit reads.
func (p *Publisher) Emit(ctx context.Context, shipmentID, eventType string, data any) {
    payload := map[string]any{
        "id":         "anc_" + uuid.New().String(),
        "type":       eventType,
        "shipmentId": shipmentID,
        "ts":         time.Now().UTC().Format(time.RFC3339),
        "status":     "pending",
        "data":       data,
    }
    body, _ := json.Marshal(payload)
    _, _ = p.Store.EnqueueAnchor(ctx, shipmentID, eventType, body)
}
