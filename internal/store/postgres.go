package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "github.com/google/uuid"
    _ "github.com/jackc/pgx/v5/stdlib"

    "coldsim/internal/model"
)

type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    return &Postgres{db: db}, nil
}

// MigrateDir applies every .sql file in dir in lexical order. Dev helper;
// production deployments run migrations out of band.
func (p *Postgres) MigrateDir(dir string) error {
    entries, err := os.ReadDir(dir)
    if err != nil { return err }
    names := []string{}
    for _, e := range entries {
        if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") { names = append(names, e.Name()) }
    }
    sort.Strings(names)
    for _, n := range names {
        b, err := os.ReadFile(filepath.Join(dir, n))
        if err != nil { return err }
        if _, err := p.db.Exec(string(b)); err != nil { return err }
    }
    return nil
}

// SaveJourney upserts the latest journey snapshot. Stage/sensor detail is
// stored as a JSONB document; hot columns are broken out for querying.
func (p *Postgres) SaveJourney(ctx context.Context, j model.Journey) error {
    doc, err := json.Marshal(j)
    if err != nil { return err }
    _, err = p.db.ExecContext(ctx, `INSERT INTO journeys (shipment_id, product, origin, destination, status, current_stage, started_at, eta, doc, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
        ON CONFLICT (shipment_id) DO UPDATE SET status=$5, current_stage=$6, eta=$8, doc=$9, updated_at=now()`,
        j.ShipmentID, j.Product, j.Origin, j.Destination, string(j.Status), j.CurrentStage, j.StartedAt, j.ETA, doc)
    return err
}

func (p *Postgres) GetJourney(ctx context.Context, shipmentID string) (model.Journey, error) {
    var doc []byte
    err := p.db.QueryRowContext(ctx, `SELECT doc FROM journeys WHERE shipment_id=$1`, shipmentID).Scan(&doc)
    if errors.Is(err, sql.ErrNoRows) { return model.Journey{}, ErrNotFound }
    if err != nil { return model.Journey{}, err }
    var j model.Journey
    if err := json.Unmarshal(doc, &j); err != nil { return model.Journey{}, err }
    return j, nil
}

func (p *Postgres) ListJourneys(ctx context.Context, cursor string, limit int) ([]model.Journey, string, error) {
    if limit <= 0 || limit > 500 { limit = 100 }
    var rows *sql.Rows
    var err error
    if cursor != "" {
        rows, err = p.db.QueryContext(ctx, `SELECT shipment_id, doc FROM journeys WHERE shipment_id > $1 ORDER BY shipment_id LIMIT $2`, cursor, limit)
    } else {
        rows, err = p.db.QueryContext(ctx, `SELECT shipment_id, doc FROM journeys ORDER BY shipment_id LIMIT $1`, limit)
    }
    if err != nil { return nil, "", err }
    defer rows.Close()
    out := []model.Journey{}
    var last string
    for rows.Next() {
        var id string
        var doc []byte
        if err := rows.Scan(&id, &doc); err != nil { return nil, "", err }
        var j model.Journey
        if err := json.Unmarshal(doc, &j); err != nil { return nil, "", err }
        out = append(out, j)
        last = id
    }
    var next string
    if len(out) == limit { next = last }
    return out, next, rows.Err()
}

func (p *Postgres) InsertReading(ctx context.Context, r model.Reading) error {
    _, err := p.db.ExecContext(ctx, `INSERT INTO readings (id, sensor_id, sensor_type, shipment_id, ts, value, unit, location, lat, lng, severity, battery, signal)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) ON CONFLICT (id) DO NOTHING`,
        r.ID, r.SensorID, string(r.SensorType), r.ShipmentID, r.TS, r.Value, r.Unit, r.Location, r.Coord.Lat, r.Coord.Lng, string(r.Severity), r.Battery, r.Signal)
    return err
}

func (p *Postgres) ListReadings(ctx context.Context, shipmentID, cursor string, limit int) ([]model.Reading, string, error) {
    if limit <= 0 || limit > 1000 { limit = 200 }
    var rows *sql.Rows
    var err error
    if cursor != "" {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, sensor_id, sensor_type, shipment_id, ts, value, unit, location, lat, lng, severity, battery, signal
            FROM readings WHERE shipment_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`, shipmentID, cursor, limit)
    } else {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, sensor_id, sensor_type, shipment_id, ts, value, unit, location, lat, lng, severity, battery, signal
            FROM readings WHERE shipment_id=$1 ORDER BY id LIMIT $2`, shipmentID, limit)
    }
    if err != nil { return nil, "", err }
    defer rows.Close()
    out := []model.Reading{}
    var last string
    for rows.Next() {
        var r model.Reading
        var typ, sev string
        if err := rows.Scan(&r.ID, &r.SensorID, &typ, &r.ShipmentID, &r.TS, &r.Value, &r.Unit, &r.Location, &r.Coord.Lat, &r.Coord.Lng, &sev, &r.Battery, &r.Signal); err != nil {
            return nil, "", err
        }
        r.SensorType = model.SensorType(typ)
        r.Severity = model.Severity(sev)
        out = append(out, r)
        last = r.ID
    }
    var next string
    if len(out) == limit { next = last }
    return out, next, rows.Err()
}

// Anchor deliveries
func (p *Postgres) EnqueueAnchor(ctx context.Context, shipmentID, eventType string, payload []byte) (string, error) {
    id := uuid.New().String()
    dk := computeDedupKey(payload)
    _, err := p.db.ExecContext(ctx, `INSERT INTO anchor_deliveries (id, shipment_id, event_type, payload, status, attempts, next_attempt_at, dedup_key)
        VALUES ($1,$2,$3,$4,'pending',0,now(),$5)
        ON CONFLICT (shipment_id, event_type, dedup_key) DO NOTHING`, id, shipmentID, eventType, payload, dk)
    if err != nil { return "", err }
    return id, nil
}

func (p *Postgres) FetchDueAnchors(ctx context.Context, limit int) ([]AnchorDelivery, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT id::text, shipment_id, event_type, payload, status, attempts
        FROM anchor_deliveries WHERE status IN ('pending','retry') AND next_attempt_at <= now() ORDER BY next_attempt_at ASC LIMIT $1`, limit)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []AnchorDelivery{}
    for rows.Next() {
        var d AnchorDelivery
        if err := rows.Scan(&d.ID, &d.ShipmentID, &d.EventType, &d.Payload, &d.Status, &d.Attempts); err != nil { return nil, err }
        out = append(out, d)
    }
    return out, rows.Err()
}

func (p *Postgres) MarkAnchor(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
    if !success {
        if nextAttemptAt == nil { t := time.Now().Add(1 * time.Minute); nextAttemptAt = &t }
        _, err := p.db.ExecContext(ctx, `UPDATE anchor_deliveries SET attempts=attempts+1, status='retry', last_error=$2, next_attempt_at=$3, updated_at=now(), response_code=$4, latency_ms=$5 WHERE id=$1`,
            id, nullIfEmpty(lastError), *nextAttemptAt, responseCode, latencyMs)
        return err
    }
    _, err := p.db.ExecContext(ctx, `UPDATE anchor_deliveries SET attempts=attempts+1, status='anchored', anchored_at=now(), updated_at=now(), response_code=$2, latency_ms=$3 WHERE id=$1`, id, responseCode, latencyMs)
    return err
}

func (p *Postgres) FailAnchor(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
    _, err := p.db.ExecContext(ctx, `UPDATE anchor_deliveries SET status='failed', last_error=$2, updated_at=now(), response_code=$3, latency_ms=$4 WHERE id=$1`,
        id, nullIfEmpty(lastError), responseCode, latencyMs)
    return err
}
