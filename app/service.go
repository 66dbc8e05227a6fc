package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/parksense/parksense/api/status"
	"github.com/parksense/parksense/config"
	coreledger "github.com/parksense/parksense/core/ledger"
	coremetrics "github.com/parksense/parksense/core/metrics"
	"github.com/parksense/parksense/core/sim"
	infraledger "github.com/parksense/parksense/infra/ledger"
	"github.com/parksense/parksense/infra/logger"
	"github.com/parksense/parksense/infra/metrics"
	"github.com/parksense/parksense/infra/mqtt"
	"github.com/parksense/parksense/internal/eventqueue"
	"github.com/parksense/parksense/pkg/export"
)

// Service wires the fleet, queue, submitter and driver together.
type Service struct {
	Driver *sim.Driver
	Fleet  *sim.Fleet
	queue  *eventqueue.Queue
	mirror *mqtt.Mirror
	log    logger.Logger
	cfg    *config.Config
}

// New creates a Service from the configuration. Ledger command detection
// happens here: a service never starts without a working external command.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	cli, err := infraledger.NewCLIClient(cfg.Ledger)
	if err != nil {
		return nil, fmt.Errorf("ledger client: %w", err)
	}
	var client coreledger.Client = cli

	var mirror *mqtt.Mirror
	if cfg.MQTT.Enabled {
		mirror, err = mqtt.NewMirror(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt mirror: %w", err)
		}
		client = mqtt.NewMirroredClient(client, mirror)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	queue := eventqueue.New()
	fleet := sim.NewFleet(cfg.Simulation, rng, queue, logger.New("fleet"), sink)
	submitter, err := coreledger.NewSubmitter(client, queue, logger.New("submitter"), sink)
	if err != nil {
		return nil, fmt.Errorf("submitter: %w", err)
	}
	driver := sim.NewDriver(cfg.Simulation, fleet, queue, submitter, logger.New("driver"), sink)

	return &Service{Driver: driver, Fleet: fleet, queue: queue, mirror: mirror, log: logg, cfg: cfg}, nil
}

// Run executes the simulation until completion or cancellation, then saves
// the run report next to the working directory.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go s.serveStatusAPI(ctx)
	}

	report, err := s.Driver.Run(ctx)
	if err != nil {
		return err
	}
	path, err := export.SaveReport(".", *report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	s.log.Infof("report saved: %s", path)
	return nil
}

func (s *Service) serveStatusAPI(ctx context.Context) {
	srv := &http.Server{
		Addr:    s.cfg.API.Addr,
		Handler: status.NewHandler(s.Fleet, s.Driver, s.queue.Len),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("status api shutdown: %v", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Errorf("status api: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mirror != nil {
		s.mirror.Close()
	}
	return nil
}
