// Package app assembles the pipeline service from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/gridpool/scr/config"
	"github.com/gridpool/scr/connectors/timeseries"
	coreaudit "github.com/gridpool/scr/core/audit"
	"github.com/gridpool/scr/core/events"
	coremetrics "github.com/gridpool/scr/core/metrics"
	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/pipeline"
	"github.com/gridpool/scr/infra/audit"
	"github.com/gridpool/scr/infra/logger"
	"github.com/gridpool/scr/infra/metrics"
	"github.com/gridpool/scr/infra/notify"
	"github.com/gridpool/scr/infra/store"
	"github.com/gridpool/scr/internal/eventbus"
)

// Service owns the pipeline and the resources it was wired with.
type Service struct {
	Pipeline *pipeline.Service
	Bus      *eventbus.Bus[events.Event]

	log      logger.Logger
	notifier *notify.MQTTNotifier
	auditor  coreaudit.Store
	promPort string
}

// NewRepos returns in-memory repositories for every pipeline entity.
func NewRepos() pipeline.Repos {
	return pipeline.Repos{
		Demands:       store.NewMemory[*model.Demand](),
		Bidders:       store.NewMemory[*model.Bidder](),
		Offers:        store.NewOfferMemory(),
		Selected:      store.NewMemory[*model.SelectedList](),
		Preparatory:   store.NewMemory[*model.PreparatoryList](),
		Distributions: store.NewDistributionMemory(),
		PoolDist:      store.NewMemory[*model.PoolDistribution](),
		PoolPrep:      store.NewMemory[*model.PoolPreparatory](),
		Activations:   store.NewMemory[*model.Activation](),
		Deployments:   store.NewMemory[*model.Deployment](),
		OfferSeries:   store.NewMemory[*model.OfferSeriesRecord](),
		UnitSeries:    store.NewMemory[*model.UnitSeriesRecord](),
		Verifications: store.NewMemory[*model.Verification](),
		Remunerations: store.NewMemory[*model.Remuneration](),
		Accountings:   store.NewMemory[*model.Accounting](),
	}
}

func newAuditStore(cfg config.AuditConfig) (coreaudit.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return audit.NewSQLiteStore(cfg.Path)
	default:
		return audit.NewJSONLStore(cfg.Path)
	}
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	provider, err := timeseries.NewClient(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("series provider: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	auditor, err := newAuditStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	bus := eventbus.New[events.Event]()
	opts := []pipeline.Option{
		pipeline.WithLogger(logg),
		pipeline.WithMetrics(sink),
		pipeline.WithAudit(auditor),
		pipeline.WithBus(bus),
	}

	svc := &Service{Bus: bus, log: logg, auditor: auditor, promPort: cfg.Metrics.PrometheusPort}
	if cfg.MQTT.Enabled {
		notifier, err := notify.NewMQTTNotifier(cfg.MQTT)
		if err != nil {
			if cerr := auditor.Close(); cerr != nil {
				logg.Errorf("audit close: %v", cerr)
			}
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		svc.notifier = notifier
		opts = append(opts, pipeline.WithNotifier(notifier))
	}

	svc.Pipeline = pipeline.New(NewRepos(), provider, opts...)
	return svc, nil
}

// Run blocks until the context is cancelled, serving the Prometheus scrape
// endpoint if one is configured.
func (s *Service) Run(ctx context.Context) error {
	if s.promPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.notifier != nil {
		s.notifier.Close()
	}
	s.Bus.Close()
	return s.auditor.Close()
}
