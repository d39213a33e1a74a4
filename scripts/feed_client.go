// Package main runs a demo client: starts monitoring a shipment and
// tails its live telemetry feed over WebSocket.
package main

import (
    "bytes"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "net/url"
    "os"
    "time"

    "github.com/gorilla/websocket"
)

func main() {
    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }
    base := fmt.Sprintf("http://localhost:%s", port)

    shipmentID := fmt.Sprintf("demo-%d", time.Now().Unix())
    body := []byte(fmt.Sprintf(`{"shipmentId":"%s","product":"Vaccine Batch 42","origin":"Newark Plant","destination":"DC Clinic"}`, shipmentID))
    req, _ := http.NewRequest(http.MethodPost, base+"/v1/monitor", bytes.NewReader(body))
    req.Header.Set("Content-Type", "application/json")
    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        log.Fatal(err)
    }
    defer func() { _ = resp.Body.Close() }()
    if resp.StatusCode != http.StatusCreated {
        log.Fatalf("start monitoring: HTTP %d", resp.StatusCode)
    }
    var journey struct {
        ShipmentID string `json:"shipmentId"`
        ETA        string `json:"eta"`
        Stages     []struct {
            Name string `json:"name"`
        } `json:"stages"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&journey); err != nil {
        log.Fatal(err)
    }
    log.Printf("monitoring %s: %d stages, eta %s", journey.ShipmentID, len(journey.Stages), journey.ETA)

    u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/journeys/" + shipmentID + "/feed"}
    c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
    if err != nil {
        log.Fatal("dial:", err)
    }
    defer func() { _ = c.Close() }()

    done := make(chan struct{})
    go func() {
        defer close(done)
        for {
            var evt struct {
                Type    string `json:"type"`
                Reading *struct {
                    SensorType string  `json:"sensorType"`
                    Value      float64 `json:"value"`
                    Unit       string  `json:"unit"`
                    Severity   string  `json:"severity"`
                } `json:"reading"`
            }
            if err := c.ReadJSON(&evt); err != nil {
                log.Printf("read: %v", err)
                return
            }
            if evt.Reading != nil {
                log.Printf("WS <- %s %s=%.2f%s [%s]", evt.Type, evt.Reading.SensorType, evt.Reading.Value, evt.Reading.Unit, evt.Reading.Severity)
            } else {
                log.Printf("WS <- %s", evt.Type)
            }
        }
    }()

    // Tail the feed for a while, then stop monitoring.
    select {
    case <-time.After(30 * time.Second):
    case <-done:
    }
    stopReq, _ := http.NewRequest(http.MethodDelete, base+"/v1/monitor/"+shipmentID, nil)
    _, _ = http.DefaultClient.Do(stopReq)
}
