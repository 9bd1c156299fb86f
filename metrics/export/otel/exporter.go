package otel

import (
	"context"
	"errors"
	"fmt"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SourceAttribute is the attribute key that tells named sources apart.
const SourceAttribute = "gotoken.source"

var (
	// ErrNilMeter is returned when no Meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when a source has no MetricsSource.
	ErrNilSource = errors.New("nil metrics source")
	// ErrDuplicateSource is returned when two sources share a name.
	ErrDuplicateSource = errors.New("duplicate metrics source name")
)

// MetricsSource is implemented by *goToken.Manager for every subject type.
type MetricsSource interface {
	MetricsSnapshot() goToken.MetricsSnapshot
}

type observedCounter struct {
	id         goToken.MetricID
	instrument metric.Int64ObservableCounter
}

type observedHistogram struct {
	id      goToken.MetricID
	buckets [internaldefs.BucketCount]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// Source names one MetricsSource, typically the Manager of one subject type.
// Every observation from it carries SourceAttribute=Name; an empty Name adds no
// attribute.
type Source struct {
	Name    string
	Metrics MetricsSource
}

type boundSource struct {
	metrics MetricsSource
	attrs   metric.ObserveOption
}

// OTelExporter publishes source snapshots through a Meter until Close.
type OTelExporter struct {
	sources      []boundSource
	registration metric.Registration
	counters     []observedCounter
	histograms   []observedHistogram
}

// NewOTelExporter exports a single unnamed source.
func NewOTelExporter(meter metric.Meter, source MetricsSource) (*OTelExporter, error) {
	return NewOTelExporterForSources(meter, Source{Metrics: source})
}

// NewOTelExporterForSources exports several sources through one set of
// instruments, separated by SourceAttribute.
func NewOTelExporterForSources(meter metric.Meter, sources ...Source) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if len(sources) == 0 {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		sources:    make([]boundSource, 0, len(sources)),
		counters:   make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		histograms: make([]observedHistogram, 0, len(internaldefs.HistogramDefs)),
	}

	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if src.Metrics == nil {
			return nil, ErrNilSource
		}
		if _, dup := seen[src.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSource, src.Name)
		}
		seen[src.Name] = struct{}{}

		var set attribute.Set
		if src.Name != "" {
			set = attribute.NewSet(attribute.String(SourceAttribute, src.Name))
		}
		exporter.sources = append(exporter.sources, boundSource{
			metrics: src.Metrics,
			attrs:   metric.WithAttributeSet(set),
		})
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*(internaldefs.BucketCount+1))

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			observables = append(observables, ins)
		}
		countName := def.Name + "_count"
		countIns, err := meter.Int64ObservableGauge(countName, metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count gauge %s: %w", countName, err)
		}
		h.count = countIns
		observables = append(observables, countIns)
		exporter.histograms = append(exporter.histograms, h)
	}

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

func (e *OTelExporter) observe(_ context.Context, observer metric.Observer) error {
	for _, src := range e.sources {
		snapshot := src.metrics.MetricsSnapshot()
		for _, c := range e.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]), src.attrs)
		}
		for _, h := range e.histograms {
			nonCumulative := internaldefs.NormalizeBuckets(snapshot.Histograms[h.id])
			cumulative := internaldefs.CumulativeBuckets(nonCumulative)
			for i := 0; i < len(cumulative); i++ {
				observer.ObserveInt64(h.buckets[i], int64(cumulative[i]), src.attrs)
			}
			observer.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]), src.attrs)
		}
	}
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
