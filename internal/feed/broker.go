package feed

import (
    "sync"

    "coldsim/internal/model"
)

// Event is the wire shape pushed to live-feed subscribers.
type Event struct {
    Type       string         `json:"type"`
    ShipmentID string         `json:"shipmentId"`
    Reading    *model.Reading `json:"reading,omitempty"`
    Data       map[string]any `json:"data,omitempty"`
}

// EventBroker fans simulation events out to per-shipment subscribers.
type EventBroker interface {
    Subscribe(shipmentID string) chan Event
    Unsubscribe(shipmentID string, ch chan Event)
    Publish(shipmentID string, evt Event)
}

type Broker struct {
    mu   sync.Mutex
    subs map[string]map[chan Event]struct{} // shipmentId -> set of channels
}

func NewBroker() *Broker {
    return &Broker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe(shipmentID string) chan Event {
    ch := make(chan Event, 8)
    b.mu.Lock()
    if b.subs[shipmentID] == nil { b.subs[shipmentID] = map[chan Event]struct{}{} }
    b.subs[shipmentID][ch] = struct{}{}
    b.mu.Unlock()
    return ch
}

func (b *Broker) Unsubscribe(shipmentID string, ch chan Event) {
    b.mu.Lock()
    if m := b.subs[shipmentID]; m != nil {
        delete(m, ch)
        if len(m) == 0 { delete(b.subs, shipmentID) }
    }
    b.mu.Unlock()
    close(ch)
}

// Publish never blocks: slow subscribers miss events instead of stalling
// the simulation.
func (b *Broker) Publish(shipmentID string, evt Event) {
    b.mu.Lock()
    m := b.subs[shipmentID]
    for ch := range m {
        select { case ch <- evt: default: }
    }
    b.mu.Unlock()
}
