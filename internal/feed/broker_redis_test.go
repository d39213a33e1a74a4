package feed

import (
    "encoding/json"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    redis "github.com/redis/go-redis/v9"
)

func newTestRedisBroker(t *testing.T) *RedisBroker {
    t.Helper()
    mr := miniredis.RunT(t)
    b, err := NewRedisBroker("redis://" + mr.Addr())
    if err != nil { t.Fatalf("broker: %v", err) }
    return b
}

func TestRedisBrokerPublishSubscribe(t *testing.T) {
    b := newTestRedisBroker(t)
    ch := b.Subscribe("B1")
    defer b.Unsubscribe("B1", ch)

    b.Publish("B1", Event{Type: "reading.recorded", ShipmentID: "B1"})
    select {
    case evt := <-ch:
        if evt.Type != "reading.recorded" || evt.ShipmentID != "B1" {
            t.Fatalf("bad event: %+v", evt)
        }
    case <-time.After(2 * time.Second):
        t.Fatal("event never arrived")
    }
}

func TestRedisBrokerUnsubscribeDuringPublish(t *testing.T) {
    b := newTestRedisBroker(t)
    ch := b.Subscribe("B1")

    // A publish racing the unsubscribe must neither panic nor leave the
    // channel open: the forwarder is the only closer.
    done := make(chan struct{})
    go func() {
        defer close(done)
        for i := 0; i < 50; i++ {
            b.Publish("B1", Event{Type: "reading.recorded", ShipmentID: "B1"})
        }
    }()
    b.Unsubscribe("B1", ch)
    <-done

drain:
    for {
        select {
        case _, ok := <-ch:
            if !ok { break drain }
        case <-time.After(2 * time.Second):
            t.Fatal("channel not closed after unsubscribe")
        }
    }

    // Second unsubscribe of the same channel is a no-op.
    b.Unsubscribe("B1", ch)
}

func TestForwardDropsMalformedAndCloses(t *testing.T) {
    msgs := make(chan *redis.Message, 4)
    ch := make(chan Event, 4)
    go forward(msgs, ch)

    good, _ := json.Marshal(Event{Type: "stage.completed", ShipmentID: "B1"})
    msgs <- &redis.Message{Payload: "not json"}
    msgs <- &redis.Message{Payload: string(good)}
    close(msgs)

    var got []Event
    for evt := range ch { got = append(got, evt) }
    if len(got) != 1 || got[0].Type != "stage.completed" {
        t.Fatalf("forwarded events: %+v", got)
    }
}
