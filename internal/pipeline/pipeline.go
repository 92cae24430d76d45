// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the five stages in order: research, generation,
// resource finding, ranking and reporting. Empty research or generation
// ends the run without a report. Empty resource finding or ranking passes
// the previous stage's use cases forward unchanged.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdiddy/usecase-engine/internal/rank"
	"github.com/pdiddy/usecase-engine/internal/report"
	"github.com/pdiddy/usecase-engine/internal/resource"
	"github.com/pdiddy/usecase-engine/internal/telemetry"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// Stage names used in StageError, spans and logs.
const (
	StageResearch  = "research"
	StageGenerate  = "generate"
	StageResources = "resources"
	StageRank      = "rank"
	StageReport    = "report"
	StageArchive   = "archive"
)

// ErrEmptySubject is returned when Run is called without a subject.
var ErrEmptySubject = errors.New("subject is required")

// StageError wraps an infrastructure failure with the stage it came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Collector gathers research documents for a subject.
type Collector interface {
	Collect(ctx context.Context, subject string, maxResults int) []types.ResearchDocument
}

// Generator turns research documents into use cases.
type Generator interface {
	Generate(ctx context.Context, subject string, docs []types.ResearchDocument) []types.UseCase
}

// Finder attaches dataset and repository links to use cases.
type Finder interface {
	Attach(ctx context.Context, useCases []types.UseCase) ([]types.UseCase, resource.Summary)
}

// Emitter writes the report and the run snapshot.
type Emitter interface {
	Emit(ctx context.Context, subject string, ranked []types.UseCase) (report.Paths, error)
	Snapshot(rec types.RunRecord) (string, error)
}

// Archive stores finished runs.
type Archive interface {
	Record(ctx context.Context, rec types.RunRecord) (int64, error)
}

// RankFunc scores and orders use cases.
type RankFunc func([]types.UseCase) []types.UseCase

// Stages holds the stage implementations. Archive may be nil; Rank
// defaults to rank.Rank.
type Stages struct {
	Collector Collector
	Generator Generator
	Finder    Finder
	Rank      RankFunc
	Emitter   Emitter
	Archive   Archive
}

// Result is the outcome of one run.
type Result struct {
	Record    types.RunRecord
	Paths     report.Paths
	Snapshot  string
	Resources resource.Summary
}

// Orchestrator runs the stages for one subject at a time.
type Orchestrator struct {
	stages     Stages
	maxResults int
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// New returns an Orchestrator. maxResults bounds the number of pages
// the collector fetches.
func New(stages Stages, maxResults int, logger *slog.Logger) *Orchestrator {
	if stages.Rank == nil {
		stages.Rank = rank.Rank
	}
	if maxResults <= 0 {
		maxResults = types.DefaultSearchResults
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		stages:     stages,
		maxResults: maxResults,
		logger:     logger,
		tracer:     telemetry.Tracer(),
		now:        time.Now,
	}
}

// Run executes the pipeline for subject. An empty research or generation
// stage returns a Result with status RunEmpty and a nil error. Report and
// archive failures are returned as *StageError.
func (o *Orchestrator) Run(ctx context.Context, subject string) (Result, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Result{}, ErrEmptySubject
	}

	ctx, span := o.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(attribute.String("subject", subject)))
	defer span.End()

	res := Result{Record: types.RunRecord{Subject: subject, StartedAt: o.now()}}
	o.logger.Info("starting run", "subject", subject)

	docs := o.research(ctx, subject)
	res.Record.Documents = len(docs)
	if len(docs) == 0 {
		o.logger.Warn("research returned no documents; stopping", "subject", subject)
		return o.finish(ctx, span, res, types.RunEmpty, nil)
	}

	generated := o.generate(ctx, subject, docs)
	res.Record.Generated = len(generated)
	if len(generated) == 0 {
		o.logger.Warn("generation returned no use cases; stopping", "subject", subject)
		return o.finish(ctx, span, res, types.RunEmpty, nil)
	}

	withResources, summary := o.resources(ctx, generated)
	res.Resources = summary
	res.Record.BackendErrors = backendErrors(summary)
	if len(withResources) == 0 {
		o.logger.Warn("resource finding returned nothing; continuing without resources")
		withResources = generated
	}

	ranked := o.rank(ctx, withResources)
	if len(ranked) == 0 {
		o.logger.Warn("ranking returned nothing; continuing unranked")
		ranked = withResources
	}
	res.Record.UseCases = ranked

	paths, err := o.report(ctx, subject, ranked)
	if err != nil {
		return o.finish(ctx, span, res, types.RunFailed, &StageError{Stage: StageReport, Err: err})
	}
	res.Paths = paths
	res.Record.ReportPath = paths.Markdown
	return o.finish(ctx, span, res, types.RunCompleted, nil)
}

func (o *Orchestrator) research(ctx context.Context, subject string) []types.ResearchDocument {
	ctx, span := o.tracer.Start(ctx, StageResearch)
	defer span.End()
	docs := o.stages.Collector.Collect(ctx, subject, o.maxResults)
	span.SetAttributes(attribute.Int("documents", len(docs)))
	o.logger.Info("research complete", "documents", len(docs))
	return docs
}

func (o *Orchestrator) generate(ctx context.Context, subject string, docs []types.ResearchDocument) []types.UseCase {
	ctx, span := o.tracer.Start(ctx, StageGenerate)
	defer span.End()
	ucs := o.stages.Generator.Generate(ctx, subject, docs)
	span.SetAttributes(attribute.Int("use_cases", len(ucs)))
	o.logger.Info("generation complete", "use_cases", len(ucs))
	return ucs
}

func (o *Orchestrator) resources(ctx context.Context, ucs []types.UseCase) ([]types.UseCase, resource.Summary) {
	ctx, span := o.tracer.Start(ctx, StageResources)
	defer span.End()
	out, summary := o.stages.Finder.Attach(ctx, ucs)
	span.SetAttributes(
		attribute.Int("calls", summary.Total()),
		attribute.Int("failed", summary.Failed),
		attribute.Int("rate_limited", summary.RateLimited),
	)
	o.logger.Info("resource finding complete",
		"ok", summary.OK, "empty", summary.Empty, "skipped", summary.Skipped,
		"rate_limited", summary.RateLimited, "failed", summary.Failed)
	return out, summary
}

func (o *Orchestrator) rank(ctx context.Context, ucs []types.UseCase) []types.UseCase {
	_, span := o.tracer.Start(ctx, StageRank)
	defer span.End()
	ranked := o.stages.Rank(ucs)
	span.SetAttributes(attribute.Int("use_cases", len(ranked)))
	return ranked
}

func (o *Orchestrator) report(ctx context.Context, subject string, ranked []types.UseCase) (report.Paths, error) {
	ctx, span := o.tracer.Start(ctx, StageReport)
	defer span.End()
	paths, err := o.stages.Emitter.Emit(ctx, subject, ranked)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return paths, err
}

// finish stamps the record, writes the snapshot and archives the run.
// runErr takes precedence over an archive failure.
func (o *Orchestrator) finish(ctx context.Context, span trace.Span, res Result, status types.RunStatus, runErr error) (Result, error) {
	res.Record.Status = status
	res.Record.CompletedAt = o.now()
	span.SetAttributes(attribute.String("status", string(status)))

	if status != types.RunEmpty {
		snap, err := o.stages.Emitter.Snapshot(res.Record)
		if err != nil {
			o.logger.Warn("writing run snapshot", "error", err)
		}
		res.Snapshot = snap
	}

	if o.stages.Archive != nil {
		id, err := o.stages.Archive.Record(ctx, res.Record)
		if err != nil {
			o.logger.Error("archiving run", "error", err)
			if runErr == nil {
				runErr = &StageError{Stage: StageArchive, Err: err}
			}
		} else {
			res.Record.ID = id
		}
	}

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		o.logger.Error("run failed", "subject", res.Record.Subject, "error", runErr)
		return res, runErr
	}
	o.logger.Info("run finished", "subject", res.Record.Subject, "status", status,
		"use_cases", len(res.Record.UseCases), "duration", res.Record.Duration())
	return res, nil
}

func backendErrors(s resource.Summary) []string {
	if len(s.Errors) == 0 {
		return nil
	}
	return append([]string(nil), s.Errors...)
}
