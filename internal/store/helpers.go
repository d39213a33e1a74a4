package store

import (
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
)

// computeDedupKey prefers the event's own id when the payload is JSON with
// one; otherwise a short hash of the payload. Keeps retried enqueues of
// the same event from fanning out duplicate anchors.
func computeDedupKey(payload []byte) string {
    var m map[string]any
    if json.Unmarshal(payload, &m) == nil {
        if v, ok := m["id"].(string); ok && v != "" {
            return v
        }
    }
    sum := sha256.Sum256(payload)
    return hex.EncodeToString(sum[:8])
}

func nullIfEmpty(s string) any { if s == "" { return nil }; return s }
