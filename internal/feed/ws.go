package feed

import (
    "net/http"
    "time"

    "github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// ServeShipmentFeed upgrades the connection and streams a shipment's
// events until the client goes away. One subscription per connection.
func ServeShipmentFeed(broker EventBroker, shipmentID string, w http.ResponseWriter, r *http.Request) {
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    defer func() { _ = conn.Close() }()

    ch := broker.Subscribe(shipmentID)
    defer broker.Unsubscribe(shipmentID, ch)

    conn.SetReadLimit(1 << 16)
    _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
    conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

    // Reader only services control frames; any read error ends the stream.
    closed := make(chan struct{})
    go func() {
        defer close(closed)
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    ping := time.NewTicker(20 * time.Second)
    defer ping.Stop()
    for {
        select {
        case <-closed:
            return
        case <-ping.C:
            if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
                return
            }
        case evt, ok := <-ch:
            if !ok { return }
            _ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
            if err := conn.WriteJSON(evt); err != nil {
                return
            }
        }
    }
}
