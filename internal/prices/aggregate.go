package prices

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/chrono"
	"bbm-backend/internal/regions"
	"bbm-backend/internal/telemetry"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("prices")

const DefaultAdapterTimeout = 90 * time.Second

const (
	report_aggregate_provinces = "aggregate.provinces"
	report_aggregate_adapter   = "aggregate.adapter"
	report_aggregate_records   = "aggregate.records"
	report_aggregate_failed    = "aggregate.failed"
)

// Adapter fetches the current prices of a single provider.
type Adapter interface {
	Fetch(ctx context.Context) ([]RawPriceRecord, error)
}

type AdapterFunc func(ctx context.Context) ([]RawPriceRecord, error)

func (f AdapterFunc) Fetch(ctx context.Context) ([]RawPriceRecord, error) {
	return f(ctx)
}

// ProvinceSource provides the canonical province list records are matched against.
type ProvinceSource interface {
	ListProvinces(ctx context.Context) ([]regions.Region, error)
}

type AggregatorOptions struct {
	// AdapterTimeout bounds every adapter call, defaults to DefaultAdapterTimeout.
	AdapterTimeout time.Duration
	MatchOptions   []regions.MatchOption
}

type Aggregator struct {
	provinces ProvinceSource
	time      chrono.TimeAPI
	tel       telemetry.API
	timeout   time.Duration
	matchOpts []regions.MatchOption
}

func NewAggregator(provinces ProvinceSource, time chrono.TimeAPI, tel telemetry.API, opts AggregatorOptions) Aggregator {
	assert.NotNil(provinces, "province source")
	assert.NotNil(time, "time")
	assert.NotNil(tel, "telemetry")

	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = DefaultAdapterTimeout
	}

	return Aggregator{
		provinces: provinces,
		time:      time,
		tel:       telemetry.NewScopedAPI("prices", tel),
		timeout:   opts.AdapterTimeout,
		matchOpts: opts.MatchOptions,
	}
}

type adapterOutcome struct {
	records []RawPriceRecord
	err     error
}

// Aggregate runs every adapter concurrently and waits for all of them. A failing,
// panicking or slow adapter only fails its own key, every key of adapters is present
// in the resulting snapshot.
//
// When the province list can't be read every record is left unmatched.
func (a Aggregator) Aggregate(ctx context.Context, adapters map[ProviderKey]Adapter) Snapshot {
	ctx, span := tracer.Start(ctx, "aggregate")
	defer span.End()
	span.SetAttributes(attribute.Int("providers", len(adapters)))

	keys := make([]ProviderKey, 0, len(adapters))
	for key := range adapters {
		keys = append(keys, key)
	}
	outcomes := make([]adapterOutcome, len(keys))

	var canonical []regions.Region
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		provinces, err := a.provinces.ListProvinces(ctx)
		if err != nil {
			a.tel.ReportWarning(report_aggregate_provinces, err)
			return
		}
		canonical = provinces
	}()

	for i, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := a.run(ctx, key, adapters[key])
			outcomes[i] = adapterOutcome{records: records, err: err}
		}()
	}
	wg.Wait()

	matcher := regions.NewMatcher(canonical, a.matchOpts...)

	snapshot := Snapshot{
		Providers: make(map[ProviderKey]ProviderResult, len(keys)),
	}
	var recordCount, failedCount int64
	for i, key := range keys {
		outcome := outcomes[i]
		if outcome.err != nil {
			failedCount++
			a.tel.ReportWarning(report_aggregate_adapter, key, outcome.err)
			snapshot.Providers[key] = Failed(outcome.err.Error())
			continue
		}
		recordCount += int64(len(outcome.records))
		snapshot.Providers[key] = Succeeded(enrich(matcher, outcome.records))
	}
	snapshot.LastUpdated = a.time.Now()

	a.tel.ReportCount(report_aggregate_records, recordCount)
	a.tel.ReportCount(report_aggregate_failed, failedCount)
	if failedCount > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d providers failed", failedCount))
	}

	return snapshot
}

func enrich(matcher regions.Matcher, records []RawPriceRecord) []EnrichedPriceRecord {
	out := make([]EnrichedPriceRecord, len(records))
	for i, record := range records {
		if record.Products == nil {
			record.Products = map[string]int64{}
		}
		out[i] = EnrichedPriceRecord{
			RawPriceRecord: record,
			ProvinceInfo:   matcher.Match(record.Province),
		}
	}
	return out
}

var errNilAdapter = errors.New("adapter is not configured")

// run calls the adapter with a deadline. The result is awaited in a select so an
// adapter that ignores its context still fails once the deadline passes, its
// goroutine is left to finish on its own.
func (a Aggregator) run(ctx context.Context, key ProviderKey, adapter Adapter) ([]RawPriceRecord, error) {
	ctx, span := tracer.Start(ctx, "aggregate:adapter")
	defer span.End()
	span.SetAttributes(attribute.String("provider", string(key)))

	if adapter == nil {
		return nil, errNilAdapter
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan adapterOutcome, 1)
	go func() {
		defer func() {
			r := recover()
			if r != nil {
				done <- adapterOutcome{err: fmt.Errorf("adapter panicked: %v", r)}
			}
		}()
		records, err := adapter.Fetch(ctx)
		done <- adapterOutcome{records: records, err: err}
	}()

	select {
	case outcome := <-done:
		if outcome.err != nil {
			span.RecordError(outcome.err)
			span.SetStatus(codes.Error, "adapter failed")
		}
		return outcome.records, outcome.err
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", a.timeout)
		}
		span.SetStatus(codes.Error, "adapter timed out")
		return nil, err
	}
}
