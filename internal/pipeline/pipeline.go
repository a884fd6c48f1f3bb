// Package pipeline orchestrates a sync run: sanity-check the prior snapshot,
// fetch from every source, deduplicate, validate, and write the new snapshot.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/registry"
)

// Source is one event provider. Fetch may return partial results alongside an
// error; the pipeline keeps whatever it got.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Event, error)
}

// Sink receives the accepted events after the snapshot is written. Optional.
type Sink interface {
	Publish(ctx context.Context, events []domain.Event) error
}

// Pipeline runs the sources in sequence and owns the snapshot lifecycle.
// Sources run one after another on purpose: they share no state, but serial
// execution keeps the combined outbound request rate predictable and the log
// interleaving readable.
type Pipeline struct {
	eventsPath string
	sources    []Source
	sink       Sink
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// New creates a pipeline. sink may be nil.
func New(eventsPath string, sources []Source, sink Sink, metrics *observability.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		eventsPath: eventsPath,
		sources:    sources,
		sink:       sink,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run executes one complete sync. Only snapshot read/write failures are
// returned; everything else degrades to partial data with logging.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.logger.With("run_id", uuid.NewString())
	start := domain.Clock().Now()
	p.metrics.SyncRunning.Set(1)
	defer func() {
		p.metrics.SyncRunning.Set(0)
		p.metrics.SyncDuration.Observe(domain.Clock().Now().Sub(start).Seconds())
	}()

	logger.Info("sync run starting", "sources", len(p.sources), "output", p.eventsPath)

	prior, err := registry.ReadSnapshot(p.eventsPath)
	if err != nil {
		return fmt.Errorf("prior snapshot check: %w", err)
	}
	if prior != nil {
		logger.Info("prior snapshot readable", "events", len(prior.Events), "last_synced", prior.LastSynced)
	} else {
		logger.Info("no prior snapshot, first run")
	}

	var fetched []domain.Event
	for _, src := range p.sources {
		events := p.fetchOne(ctx, src, logger)
		logger.Info("source complete", "source", src.Name(), "events", len(events))
		fetched = append(fetched, events...)
	}
	logger.Info("fetch phase complete", "events", len(fetched))

	deduped, merged := domain.Deduplicate(fetched)
	p.metrics.DuplicatesMerged.Add(float64(merged))
	logger.Info("dedup complete", "unique", len(deduped), "merged", merged)

	accepted, rejections := p.validate(deduped, logger)

	reg, err := registry.WriteSnapshot(p.eventsPath, accepted)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	p.metrics.EventsWritten.Add(float64(len(accepted)))
	logger.Info("snapshot written",
		"path", p.eventsPath,
		"total", reg.Metadata.TotalEvents,
		"active", reg.Metadata.ActiveEvents)

	if p.sink != nil {
		if err := p.sink.Publish(ctx, accepted); err != nil {
			logger.Error("sink publish failed", "error", err)
		}
	}

	p.report(accepted, rejections, merged, logger)
	return nil
}

// fetchOne isolates a single source: errors keep partial results, panics
// discard them. Either way the run continues.
func (p *Pipeline) fetchOne(ctx context.Context, src Source, logger *slog.Logger) (events []domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("source panicked, discarding its records", "source", src.Name(), "panic", r)
			p.metrics.FetchErrors.WithLabelValues(src.Name()).Inc()
			events = nil
		}
	}()

	events, err := src.Fetch(ctx)
	if err != nil {
		logger.Error("source fetch failed", "source", src.Name(), "error", err, "partial_events", len(events))
		p.metrics.FetchErrors.WithLabelValues(src.Name()).Inc()
	}
	return events
}

// validate drops records that fail schema or coordinate checks, tallying
// rejection reasons. Every drop is logged with enough context to debug the
// run without re-running it.
func (p *Pipeline) validate(events []domain.Event, logger *slog.Logger) ([]domain.Event, map[domain.RejectReason]int) {
	accepted := make([]domain.Event, 0, len(events))
	rejections := make(map[domain.RejectReason]int)

	reject := func(e domain.Event, reason domain.RejectReason, detail any) {
		rejections[reason]++
		p.metrics.EventsRejected.WithLabelValues(string(reason)).Inc()
		logger.Debug("event rejected", "id", e.ID, "title", e.Title, "reason", reason, "detail", detail)
	}

	for _, e := range events {
		if problems := domain.ValidateSchema(e); len(problems) > 0 {
			reject(e, domain.RejectSchemaInvalid, problems)
			continue
		}
		lng, lat := e.Coordinates[0], e.Coordinates[1]
		if reason, ok := domain.ValidateCoordinates(lat, lng); !ok {
			reject(e, reason, []float64{lng, lat})
			continue
		}
		accepted = append(accepted, e)
	}

	return accepted, rejections
}
