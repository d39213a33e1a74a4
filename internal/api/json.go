package api

import (
    "encoding/json"
    "errors"
    "io"
    "net/http"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
    Type     string `json:"type"`
    Title    string `json:"title"`
    Status   int    `json:"status"`
    Detail   string `json:"detail,omitempty"`
    Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
    writeJSON(w, status, Problem{
        Type:     "about:blank",
        Title:    title,
        Status:   status,
        Detail:   detail,
        Instance: instance,
    })
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
    body := http.MaxBytesReader(nil, r.Body, 1<<20)
    if err := json.NewDecoder(body).Decode(v); err != nil {
        if errors.Is(err, io.EOF) {
            return errors.New("empty body")
        }
        return err
    }
    return nil
}
