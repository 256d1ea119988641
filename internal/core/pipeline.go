// Package core wires the normalization, resolution, merge and
// projection stages into one request-scoped batch transform.
package core

import (
	"fmt"
	"sync"

	"github.com/coursecal/coursecal/internal/config"
	"github.com/coursecal/coursecal/internal/core/merge"
	"github.com/coursecal/coursecal/internal/core/model"
	"github.com/coursecal/coursecal/internal/core/normalize"
	"github.com/coursecal/coursecal/internal/core/project"
	"github.com/coursecal/coursecal/internal/core/resolve"
)

// Pipeline is the stateless per-request engine. Construct once at
// startup; Process may be called from concurrent requests since every
// stage works on request-local data only.
type Pipeline struct {
	Normalizer *normalize.Normalizer
	Resolver   resolve.Resolver
	Engine     merge.Engine

	workers int
}

// NewPipeline builds the pipeline from configuration and the compiled
// rule tables.
func NewPipeline(cfg *config.Config, rules config.Rules) (*Pipeline, error) {
	n, err := normalize.New(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule tables: %w", err)
	}

	workers := cfg.Concurrency.Normalize
	if workers < 1 {
		workers = 1
	}

	return &Pipeline{
		Normalizer: n,
		Resolver:   resolve.New(cfg.Engine.DefaultYear, cfg.Engine.MaxTermWeeks),
		Engine:     merge.New(cfg.Engine.WeightSplitTolerance, cfg.Engine.UntilConflictToleranceDays),
		workers:    workers,
	}, nil
}

// Normalize runs the per-record stages. Records are independent, so
// they run in parallel under a bounded worker count; results land in
// their input slot, keeping output order equal to input order.
func (p *Pipeline) Normalize(raws []model.RawEvent, anchor model.TermAnchor) []model.NormalizedEvent {
	out := make([]model.NormalizedEvent, len(raws))

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i := range raws {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = p.normalizeOne(raws[i], anchor)
		}(i)
	}
	wg.Wait()

	return out
}

func (p *Pipeline) normalizeOne(raw model.RawEvent, anchor model.TermAnchor) model.NormalizedEvent {
	ev := p.Normalizer.Event(raw)

	res := p.Resolver.Resolve(raw, anchor)
	ev.Date = res.Date
	ev.Time = res.Time
	ev.Recurrence = res.Recurrence
	ev.Unresolved = res.Unresolved

	return ev
}

// Process runs the full transform: normalize every record, wait for the
// whole batch (the merge step needs the complete set), then group and
// fold. It cannot fail on well-formed input; malformed fields degrade
// at normalization time.
func (p *Pipeline) Process(raws []model.RawEvent, anchor model.TermAnchor) []model.CanonicalEvent {
	return p.Engine.Merge(p.Normalize(raws, anchor))
}

// Records is the final projection into the serializer-facing shape.
func (p *Pipeline) Records(events []model.CanonicalEvent) []model.CalendarRecord {
	return project.Records(events)
}
