package feed

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// RedisBroker implements EventBroker over Redis Pub/Sub so multiple host
// instances can watch the same shipments.
type RedisBroker struct {
    rdb *redis.Client

    mu   sync.Mutex
    subs map[chan Event]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, err }
    return &RedisBroker{rdb: redis.NewClient(opt), subs: map[chan Event]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(shipmentID string) chan Event {
    ch := make(chan Event, 16)
    ctx := context.Background()
    ps := b.rdb.Subscribe(ctx, b.chanName(shipmentID))
    // initial consume to ensure subscription
    _, _ = ps.Receive(ctx)
    b.mu.Lock()
    b.subs[ch] = ps
    b.mu.Unlock()
    go forward(ps.Channel(), ch)
    return ch
}

// forward is the only sender on ch and its sole closer, so an
// unsubscribe can never race a publish into a closed channel.
func forward(msgs <-chan *redis.Message, ch chan Event) {
    defer close(ch)
    for msg := range msgs {
        var evt Event
        if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
            select { case ch <- evt: default: }
        }
    }
}

// Unsubscribe closes the underlying pub/sub; the forwarder drains and
// closes ch once the message channel ends. Safe to call twice.
func (b *RedisBroker) Unsubscribe(shipmentID string, ch chan Event) {
    b.mu.Lock()
    ps := b.subs[ch]
    delete(b.subs, ch)
    b.mu.Unlock()
    if ps != nil { _ = ps.Close() }
}

func (b *RedisBroker) Publish(shipmentID string, evt Event) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    data, _ := json.Marshal(evt)
    _ = b.rdb.Publish(ctx, b.chanName(shipmentID), data).Err()
}

func (b *RedisBroker) chanName(shipmentID string) string { return "shipment:" + shipmentID }
