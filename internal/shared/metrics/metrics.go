// Package metrics keeps process counters for the analysis pipeline and renders them in
// the Prometheus text exposition format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// DurationBucketsMs are the analysis latency histogram bounds.
var DurationBucketsMs = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

type registry struct {
	started     atomic.Uint64
	completed   atomic.Uint64
	jobsCreated atomic.Uint64
	failed      *labeledCounter
	documents   *labeledCounter
	duration    *histogram
}

func newRegistry() *registry {
	return &registry{
		failed:    newLabeledCounter(),
		documents: newLabeledCounter(),
		duration:  newHistogram(DurationBucketsMs),
	}
}

var std = newRegistry()

// IncAnalysisStarted counts an analysis entering the pipeline.
func IncAnalysisStarted() { std.started.Add(1) }

// IncAnalysisCompleted counts an analysis that produced a result.
func IncAnalysisCompleted() { std.completed.Add(1) }

// IncAnalysisFailed counts a failed analysis by reason (extraction, nlp, canceled, internal).
func IncAnalysisFailed(reason string) { std.failed.Inc(reason) }

// IncDocumentKind counts an analyzed document by its detected kind (pdf, docx, unknown).
func IncDocumentKind(kind string) { std.documents.Inc(kind) }

// IncJobPostingCreated counts saved job postings.
func IncJobPostingCreated() { std.jobsCreated.Add(1) }

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	std.duration.Observe(value)
}

// Handler serves Render over HTTP.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(Render()))
	}
}

// Render renders every series in Prometheus text format.
func Render() string {
	return std.render()
}

func (r *registry) render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analysis_started_total", "Analyses started.", r.started.Load())
	writeCounter(&buf, "analysis_completed_total", "Analyses that produced a result.", r.completed.Load())
	writeLabeled(&buf, "analysis_failed_total", "Failed analyses by reason.", "reason", r.failed.Snapshot())
	writeLabeled(&buf, "analysis_documents_total", "Analyzed documents by kind.", "kind", r.documents.Snapshot())
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds.", r.duration.Snapshot())
	writeCounter(&buf, "job_postings_created_total", "Saved job postings.", r.jobsCreated.Load())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (v *labeledCounter) Inc(label string) {
	if label == "" {
		label = "unknown"
	}
	v.mu.Lock()
	v.values[label]++
	v.mu.Unlock()
}

func (v *labeledCounter) Snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
}

// histogram stores per-bucket counts; render makes them cumulative.
type histogram struct {
	mu     sync.Mutex
	bounds []float64
	counts []uint64
	sum    float64
	total  uint64
}

type histogramSnapshot struct {
	bounds []float64
	counts []uint64
	sum    float64
	total  uint64
}

func newHistogram(bounds []float64) *histogram {
	return &histogram{
		bounds: append([]float64(nil), bounds...),
		counts: make([]uint64, len(bounds)),
	}
}

func (h *histogram) Observe(value float64) {
	i := sort.SearchFloat64s(h.bounds, value)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total++
	h.sum += value
	if i < len(h.counts) {
		h.counts[i]++
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		bounds: h.bounds,
		counts: append([]uint64(nil), h.counts...),
		sum:    h.sum,
		total:  h.total,
	}
}

func writeHeader(buf *bytes.Buffer, name, help, kind string) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	writeHeader(buf, name, help, "counter")
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeled(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	writeHeader(buf, name, help, "counter")
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	writeHeader(buf, name, help, "histogram")
	var cumulative uint64
	for i, bound := range snap.bounds {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.total)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.total)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
