package api

import (
    "log"
    "math/rand"
    "time"

    "coldsim/internal/anchor"
    "coldsim/internal/config"
    "coldsim/internal/feed"
    "coldsim/internal/sim"
    "coldsim/internal/store"
)

// Server is the host shell around the simulation engine: it owns the
// scheduler, the collaborator adapters, and the thin HTTP surface used to
// run and observe journeys.
type Server struct {
    Cfg       config.Config
    Store     store.Store
    Engine    *sim.Engine
    Scheduler *sim.Scheduler
    Broker    feed.EventBroker
    Emitter   *feed.Emitter
    Loc       *feed.LocationCache
    anchors   *anchor.Worker
}

// NewServer wires the engine and its collaborators from config. With no
// DATABASE_URL the in-memory store is used; with no REDIS_URL the
// in-process broker.
func NewServer(cfg config.Config) (*Server, error) {
    var st store.Store
    if cfg.DatabaseURL == "" {
        st = store.NewMemory()
    } else {
        sp, err := store.NewPostgres(cfg.DatabaseURL)
        if err != nil {
            return nil, err
        }
        // Run migrations (dev helper)
        if err := sp.MigrateDir("db/migrations"); err != nil {
            log.Printf("migrate: %v", err)
        }
        st = sp
    }

    var broker feed.EventBroker
    if cfg.RedisURL != "" {
        rb, err := feed.NewRedisBroker(cfg.RedisURL)
        if err != nil {
            log.Printf("redis broker unavailable, falling back to in-process fan-out: %v", err)
            broker = feed.NewBroker()
        } else {
            broker = rb
        }
    } else {
        broker = feed.NewBroker()
    }

    var pub *anchor.Publisher
    var worker *anchor.Worker
    if cfg.Anchor.Enabled && cfg.Anchor.GatewayURL != "" {
        pub = anchor.NewPublisher(st)
        worker = anchor.NewWorker(st, cfg.Anchor.GatewayURL, cfg.Anchor.Secret, cfg.Anchor.MaxAttempts)
    }

    loc := feed.NewLocationCache()
    emitter := feed.NewEmitter(broker, st, pub, loc, feed.EmitterConfig{QueueSize: cfg.Feed.QueueSize, RatePerSec: cfg.Feed.RatePerSec})

    gen := sim.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
    engine := sim.NewEngine(gen, emitter, sim.EngineConfig{Step: cfg.SimStep, Drain: cfg.BatteryDrain})
    emitter.BindJourneys(engine)

    return &Server{
        Cfg:       cfg,
        Store:     st,
        Engine:    engine,
        Scheduler: sim.NewScheduler(engine, cfg.TickInterval),
        Broker:    broker,
        Emitter:   emitter,
        Loc:       loc,
        anchors:   worker,
    }, nil
}

// Start launches the background collaborators.
func (s *Server) Start() {
    s.Emitter.Start()
    if s.anchors != nil { s.anchors.Start() }
}

// Shutdown stops ticking, drains the feed, and halts the anchor worker.
func (s *Server) Shutdown() {
    s.Scheduler.Shutdown()
    s.Emitter.Shutdown()
    if s.anchors != nil { close(s.anchors.Stop) }
}
