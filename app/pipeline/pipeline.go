// Package pipeline runs one archive-and-compile cycle for a source: load
// the persisted archive, discover and extract fresh articles, merge them
// in, drop expired records, save, and package the survivors into a digest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsdigest/app/archive"
	"newsdigest/app/config"
	"newsdigest/app/digest"
	"newsdigest/app/extractor"
)

const (
	StageExtract = "extract"
	StageMerge   = "merge"
)

// Discoverer yields candidate article URLs for a source.
type Discoverer interface {
	Run(ctx context.Context, sourceConfig *config.SourceConfig) ([]string, error)
}

// Extractor turns candidate URLs into article records, preserving input
// order and reporting per-URL failures as values.
type Extractor interface {
	RunAll(ctx context.Context, urls []string, sourceConfig *config.SourceConfig, reference archive.Date, workers int) []extractor.Result
}

// Compiler packages a partition into a digest file. A nil digest with a
// nil error means the archive was empty and nothing was built.
type Compiler interface {
	Run(ctx context.Context, sourceConfig *config.SourceConfig, partition archive.Partition, reference archive.Date) (*digest.Digest, error)
}

// Importer catalogs a digest file into a local library.
type Importer interface {
	Run(ctx context.Context, path string) error
}

// Failure describes one per-record failure inside a run.
type Failure struct {
	URL     string
	Stage   string
	Message string
}

// Summary reports what a run did.
type Summary struct {
	Source        string
	ReferenceDate archive.Date
	Discovered    int
	Extracted     int
	Failed        int
	Added         int
	Superseded    int
	Expired       int
	Today         int
	ThisWeek      int
	Archived      int
	DigestPath    string
	Failures      []Failure
}

type Pipeline struct {
	sourceConfig *config.SourceConfig
	store        *archive.Store
	discoverer   Discoverer
	extractor    Extractor
	compiler     Compiler
	importer     Importer
	workerCount  int
	location     *time.Location
}

func NewPipeline(sourceConfig *config.SourceConfig, store *archive.Store, discoverer Discoverer,
	extractor Extractor, compiler Compiler, importer Importer, workerCount int, location *time.Location) *Pipeline {
	if location == nil {
		location = time.UTC
	}

	return &Pipeline{
		sourceConfig: sourceConfig,
		store:        store,
		discoverer:   discoverer,
		extractor:    extractor,
		compiler:     compiler,
		importer:     importer,
		workerCount:  workerCount,
		location:     location,
	}
}

// ReferenceDate is the calendar date of now in the configured timezone.
// Every bucketing decision in a run keyed off this date.
func (p *Pipeline) ReferenceDate(now time.Time) archive.Date {
	return archive.DateOf(now.In(p.location))
}

// Run executes one cycle. A corrupt store aborts before anything is
// written.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*Summary, error) {
	reference := p.ReferenceDate(now)

	summary := &Summary{
		Source:        p.sourceConfig.Source.Name,
		ReferenceDate: reference,
	}

	persisted, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load article store: %w", err)
	}

	urls, err := p.discoverer.Run(ctx, p.sourceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to discover articles: %w", err)
	}
	summary.Discovered = len(urls)

	results := p.extractor.RunAll(ctx, urls, p.sourceConfig, reference, p.workerCount)

	var fresh []archive.ArticleRecord
	for _, result := range results {
		if result.Err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				URL:     result.URL,
				Stage:   StageExtract,
				Message: result.Err.Error(),
			})
			slog.Warn("Skipping article", "url", result.URL, "error", result.Err)
			continue
		}
		fresh = append(fresh, result.Record)
	}
	summary.Extracted = len(fresh)

	merged := archive.Merge(persisted, fresh)
	summary.Added = merged.Added
	summary.Superseded = merged.Superseded
	for _, rejected := range merged.Rejected {
		summary.Failures = append(summary.Failures, Failure{
			URL:     rejected.URL,
			Stage:   StageMerge,
			Message: "record has no URL",
		})
		slog.Warn("Rejecting record without URL", "title", rejected.Title)
	}

	partition := archive.PartitionByAge(merged.Records, reference)
	summary.Today = len(partition.Today)
	summary.ThisWeek = len(partition.ThisWeek)
	summary.Expired = len(partition.Expired)
	for _, expired := range partition.Expired {
		slog.Debug("Dropping expired article", "url", expired.URL, "date", expired.Date)
	}

	retained := partition.Retained()
	summary.Archived = len(retained)

	if err := p.store.Save(retained); err != nil {
		return nil, fmt.Errorf("failed to save article store: %w", err)
	}

	compiled, err := p.compiler.Run(ctx, p.sourceConfig, partition, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to compile digest: %w", err)
	}
	if compiled == nil {
		slog.Info("Archive is empty, no digest built", "source", summary.Source)
		return summary, nil
	}
	summary.DigestPath = compiled.Path

	if p.importer != nil {
		if err := p.importer.Run(ctx, compiled.Path); err != nil {
			slog.Warn("Failed to import digest into library", "path", compiled.Path, "error", err)
		}
	}

	return summary, nil
}
