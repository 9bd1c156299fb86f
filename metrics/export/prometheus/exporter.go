package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/metrics/export/internaldefs"
)

// MetricsSource is implemented by *goToken.Manager for every subject type.
type MetricsSource interface {
	MetricsSnapshot() goToken.MetricsSnapshot
}

// PrometheusExporter renders goToken metrics in Prometheus text exposition format.
type PrometheusExporter struct {
	sources []MetricsSource
}

// NewPrometheusExporter creates an exporter that sums the snapshots of all
// sources, so managers of several subject types can share one /metrics route.
func NewPrometheusExporter(sources ...MetricsSource) *PrometheusExporter {
	kept := make([]MetricsSource, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &PrometheusExporter{sources: kept}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current metrics in Prometheus text exposition format. It
// returns "" when every source has metrics disabled.
func (p *PrometheusExporter) Render() string {
	if p == nil || len(p.sources) == 0 {
		return ""
	}

	snapshot, ok := merge(p.sources)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.Grow(2048)

	for _, def := range internaldefs.CounterDefs {
		writeCounter(&b, def.Name, def.Help, snapshot.Counters[def.ID])
	}

	for _, def := range internaldefs.HistogramDefs {
		nonCumulative := internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID])
		cumulative := internaldefs.CumulativeBuckets(nonCumulative)
		writeHistogram(&b, def.Name, def.Help, cumulative)
	}

	return b.String()
}

func merge(sources []MetricsSource) (goToken.MetricsSnapshot, bool) {
	out := goToken.MetricsSnapshot{
		Counters:   map[goToken.MetricID]uint64{},
		Histograms: map[goToken.MetricID][]uint64{},
	}
	enabled := false

	for _, src := range sources {
		s := src.MetricsSnapshot()
		if len(s.Counters) == 0 && len(s.Histograms) == 0 {
			continue
		}
		enabled = true
		for id, v := range s.Counters {
			out.Counters[id] += v
		}
		for id, buckets := range s.Histograms {
			acc := out.Histograms[id]
			if len(acc) < len(buckets) {
				grown := make([]uint64, len(buckets))
				copy(grown, acc)
				acc = grown
			}
			for i, v := range buckets {
				acc[i] += v
			}
			out.Histograms[id] = acc
		}
	}

	return out, enabled
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func writeHistogram(b *strings.Builder, name, help string, cumulative [internaldefs.BucketCount]uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" histogram\n")

	for i, le := range internaldefs.HistogramBounds {
		b.WriteString(name)
		b.WriteString("_bucket{le=\"")
		b.WriteString(le)
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(cumulative[i], 10))
		b.WriteByte('\n')
	}

	b.WriteString(name)
	b.WriteString("_count ")
	b.WriteString(strconv.FormatUint(cumulative[len(cumulative)-1], 10))
	b.WriteByte('\n')

	// Snapshots carry bucket counts only.
	b.WriteString(name)
	b.WriteString("_sum 0\n")
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}
