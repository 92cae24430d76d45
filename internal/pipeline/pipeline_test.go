// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pdiddy/usecase-engine/internal/report"
	"github.com/pdiddy/usecase-engine/internal/resource"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// --- fakes ---

type fakeCollector struct {
	docs       []types.ResearchDocument
	calls      int
	maxResults int
}

func (f *fakeCollector) Collect(_ context.Context, _ string, maxResults int) []types.ResearchDocument {
	f.calls++
	f.maxResults = maxResults
	return f.docs
}

type fakeGenerator struct {
	useCases []types.UseCase
	calls    int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ []types.ResearchDocument) []types.UseCase {
	f.calls++
	return f.useCases
}

type fakeFinder struct {
	empty   bool
	summary resource.Summary
	calls   int
}

func (f *fakeFinder) Attach(_ context.Context, ucs []types.UseCase) ([]types.UseCase, resource.Summary) {
	f.calls++
	if f.empty {
		return nil, f.summary
	}
	out := make([]types.UseCase, len(ucs))
	for i, uc := range ucs {
		c := uc.Clone()
		c.Resources = []types.ResourceLink{{URL: "https://example.com/" + uc.Title, Title: uc.Title, Source: "github"}}
		out[i] = c
	}
	return out, f.summary
}

type fakeEmitter struct {
	emitErr   error
	snapErr   error
	emitted   []types.UseCase
	snapshots []types.RunRecord
}

func (f *fakeEmitter) Emit(_ context.Context, subject string, ranked []types.UseCase) (report.Paths, error) {
	if f.emitErr != nil {
		return report.Paths{}, f.emitErr
	}
	f.emitted = ranked
	return report.Paths{Markdown: "outputs/" + report.FileName(subject, ".md")}, nil
}

func (f *fakeEmitter) Snapshot(rec types.RunRecord) (string, error) {
	f.snapshots = append(f.snapshots, rec)
	if f.snapErr != nil {
		return "", f.snapErr
	}
	return "outputs/" + report.FileName(rec.Subject, ".yaml"), nil
}

type fakeArchive struct {
	err     error
	records []types.RunRecord
}

func (f *fakeArchive) Record(_ context.Context, rec types.RunRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, rec)
	return int64(len(f.records)), nil
}

type fixture struct {
	collector *fakeCollector
	generator *fakeGenerator
	finder    *fakeFinder
	emitter   *fakeEmitter
	archive   *fakeArchive
}

func newFixture() *fixture {
	return &fixture{
		collector: &fakeCollector{docs: []types.ResearchDocument{{URL: "https://acme.example", Title: "Acme", Text: "Acme sells widgets."}}},
		generator: &fakeGenerator{useCases: []types.UseCase{
			{Title: "Forecasting", Impact: "Medium", Complexity: "Medium"},
			{Title: "Support bot", Impact: "High", Complexity: "Low"},
		}},
		finder:  &fakeFinder{summary: resource.Summary{OK: 2}},
		emitter: &fakeEmitter{},
		archive: &fakeArchive{},
	}
}

func (f *fixture) orchestrator(rankFn RankFunc) *Orchestrator {
	o := New(Stages{
		Collector: f.collector,
		Generator: f.generator,
		Finder:    f.finder,
		Rank:      rankFn,
		Emitter:   f.emitter,
		Archive:   f.archive,
	}, 3, slog.New(slog.NewTextHandler(io.Discard, nil)))
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return o
}

// --- happy path ---

func TestRunCompleted(t *testing.T) {
	f := newFixture()
	res, err := f.orchestrator(nil).Run(context.Background(), "  Acme Retail ")
	require.NoError(t, err)

	assert.Equal(t, types.RunCompleted, res.Record.Status)
	assert.Equal(t, "Acme Retail", res.Record.Subject)
	assert.Equal(t, 3, f.collector.maxResults)
	assert.Equal(t, 1, res.Record.Documents)
	assert.Equal(t, 2, res.Record.Generated)
	assert.Equal(t, "outputs/acme_retail_usecases.md", res.Record.ReportPath)
	assert.Equal(t, "outputs/acme_retail_usecases.yaml", res.Snapshot)
	assert.Equal(t, time.Second, res.Record.Duration())

	require.Len(t, res.Record.UseCases, 2)
	assert.Equal(t, "Support bot", res.Record.UseCases[0].Title)
	assert.True(t, res.Record.UseCases[0].HasScore())
	assert.Len(t, res.Record.UseCases[0].Resources, 1)
	assert.Equal(t, res.Record.UseCases, f.emitter.emitted)

	require.Len(t, f.archive.records, 1)
	assert.Equal(t, int64(1), res.Record.ID)
	assert.Equal(t, types.RunCompleted, f.archive.records[0].Status)
}

func TestRunWithoutArchive(t *testing.T) {
	f := newFixture()
	o := f.orchestrator(nil)
	o.stages.Archive = nil
	res, err := o.Run(context.Background(), "acme")
	require.NoError(t, err)
	assert.Zero(t, res.Record.ID)
}

func TestRunEmptySubject(t *testing.T) {
	f := newFixture()
	_, err := f.orchestrator(nil).Run(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptySubject)
	assert.Zero(t, f.collector.calls)
}

// --- short circuit ---

func TestRunStopsWhenResearchEmpty(t *testing.T) {
	f := newFixture()
	f.collector.docs = nil
	res, err := f.orchestrator(nil).Run(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, types.RunEmpty, res.Record.Status)
	assert.Zero(t, f.generator.calls)
	assert.Zero(t, f.finder.calls)
	assert.Nil(t, f.emitter.emitted)
	assert.Empty(t, f.emitter.snapshots)
	require.Len(t, f.archive.records, 1)
	assert.Equal(t, types.RunEmpty, f.archive.records[0].Status)
}

func TestRunStopsWhenGenerationEmpty(t *testing.T) {
	f := newFixture()
	f.generator.useCases = nil
	res, err := f.orchestrator(nil).Run(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, types.RunEmpty, res.Record.Status)
	assert.Equal(t, 1, f.generator.calls)
	assert.Zero(t, f.finder.calls)
	assert.Nil(t, f.emitter.emitted)
	assert.Empty(t, res.Record.ReportPath)
}

// --- degrade ---

func TestRunContinuesWhenResourcesEmpty(t *testing.T) {
	f := newFixture()
	f.finder.empty = true
	f.finder.summary = resource.Summary{Failed: 3, Errors: []string{"kaggle: boom"}}
	res, err := f.orchestrator(nil).Run(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, types.RunCompleted, res.Record.Status)
	require.Len(t, f.emitter.emitted, 2)
	for _, uc := range f.emitter.emitted {
		assert.Empty(t, uc.Resources)
	}
	assert.Equal(t, []string{"kaggle: boom"}, res.Record.BackendErrors)
	assert.True(t, res.Resources.HasFailures())
}

func TestRunContinuesWhenRankingEmpty(t *testing.T) {
	f := newFixture()
	res, err := f.orchestrator(func([]types.UseCase) []types.UseCase { return nil }).Run(context.Background(), "acme")
	require.NoError(t, err)

	require.Len(t, f.emitter.emitted, 2)
	assert.Equal(t, "Forecasting", f.emitter.emitted[0].Title)
	assert.False(t, f.emitter.emitted[0].HasScore())
	assert.Equal(t, types.RunCompleted, res.Record.Status)
}

// --- infrastructure failures ---

func TestRunReportFailure(t *testing.T) {
	f := newFixture()
	f.emitter.emitErr = errors.New("disk full")
	res, err := f.orchestrator(nil).Run(context.Background(), "acme")
	require.Error(t, err)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageReport, se.Stage)
	assert.EqualError(t, err, "report: disk full")
	assert.Equal(t, types.RunFailed, res.Record.Status)
	require.Len(t, f.archive.records, 1)
	assert.Equal(t, types.RunFailed, f.archive.records[0].Status)
}

func TestRunArchiveFailure(t *testing.T) {
	f := newFixture()
	f.archive.err = errors.New("database is locked")
	res, err := f.orchestrator(nil).Run(context.Background(), "acme")

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageArchive, se.Stage)
	assert.Equal(t, types.RunCompleted, res.Record.Status)
	assert.NotEmpty(t, f.emitter.emitted)
}

func TestRunSnapshotFailureIsSoft(t *testing.T) {
	f := newFixture()
	f.emitter.snapErr = errors.New("read-only")
	res, err := f.orchestrator(nil).Run(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot)
	assert.Len(t, f.archive.records, 1)
}

// --- tracing ---

func TestRunOpensSpanPerStage(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	f := newFixture()
	_, err := f.orchestrator(nil).Run(context.Background(), "acme")
	require.NoError(t, err)

	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{StageResearch, StageGenerate, StageResources, StageRank, StageReport, "pipeline.run"}, names)
}
