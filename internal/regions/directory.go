package regions

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/cache"
	"bbm-backend/internal/telemetry"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("regions")

const (
	DefaultBaseURL = "https://emsifa.github.io/api-wilayah-indonesia/api"
	DefaultTTL     = 24 * time.Hour
)

const (
	report_directory_fetch  = "directory.fetch"
	report_directory_cached = "directory.cached"
)

var (
	// ErrInvalidID is returned when a province or regency id isn't a non-empty string of digits.
	ErrInvalidID = errors.New("invalid region id")
	// ErrNotAvailable is returned by directories that cannot answer a kind of lookup.
	ErrNotAvailable = errors.New("region listing not available")
)

// FetchError means the external region source could not be reached or answered
// with something unusable. Status is 0 when no response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil && e.Status != 0 {
		return fmt.Sprintf("fetch regions from %s (status %d): %s", e.URL, e.Status, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch regions from %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch regions from %s: unexpected status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Directory lists the administrative regions of Indonesia, each listing keeps the
// order of the source.
type Directory interface {
	ListProvinces(ctx context.Context) ([]Region, error)
	ListRegencies(ctx context.Context, provinceId string) ([]Region, error)
	ListDistricts(ctx context.Context, regencyId string) ([]Region, error)
}

// ValidID reports whether id looks like a region code (digits only).
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

type HttpDirectoryOptions struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// TTL of every cached listing, defaults to DefaultTTL.
	TTL     time.Duration
	Timeout time.Duration
}

// HttpDirectory reads the emsifa api-wilayah-indonesia JSON API, listings are
// cached under the provinces, regencies:<id> and districts:<id> keys.
type HttpDirectory struct {
	http  *resty.Client
	cache *cache.Cache
	ttl   time.Duration
	tel   telemetry.API
}

func NewHttpDirectory(opts HttpDirectoryOptions, c *cache.Cache, tel telemetry.API) HttpDirectory {
	assert.NotNil(c, "cache")
	assert.NotNil(tel, "telemetry")

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("accept", "application/json")

	scoped := telemetry.NewScopedAPI("regions", tel)
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("http", scoped))

	return HttpDirectory{
		http:  client,
		cache: c,
		ttl:   opts.TTL,
		tel:   scoped,
	}
}

func (d HttpDirectory) ListProvinces(ctx context.Context) ([]Region, error) {
	return d.list(ctx, cache.KeyProvinces, "/provinces.json")
}

func (d HttpDirectory) ListRegencies(ctx context.Context, provinceId string) ([]Region, error) {
	if !ValidID(provinceId) {
		return nil, fmt.Errorf("province %q: %w", provinceId, ErrInvalidID)
	}
	return d.list(ctx, cache.RegenciesKey(provinceId), fmt.Sprintf("/regencies/%s.json", provinceId))
}

func (d HttpDirectory) ListDistricts(ctx context.Context, regencyId string) ([]Region, error) {
	if !ValidID(regencyId) {
		return nil, fmt.Errorf("regency %q: %w", regencyId, ErrInvalidID)
	}
	return d.list(ctx, cache.DistrictsKey(regencyId), fmt.Sprintf("/districts/%s.json", regencyId))
}

func (d HttpDirectory) list(ctx context.Context, key, path string) ([]Region, error) {
	ctx, span := tracer.Start(ctx, "directory:list")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	cached, ok, err := cache.GetAs[[]Region](d.cache, key)
	if err != nil {
		// something else was stored under a region key, overwrite it with a fresh listing
		d.tel.ReportBroken(report_directory_cached, err, key)
	}
	if ok {
		span.SetAttributes(attribute.Bool("cached", true))
		return clone(cached), nil
	}

	url := d.http.BaseURL + path
	res, err := d.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		d.tel.ReportBroken(report_directory_fetch, err, url)
		return nil, &FetchError{URL: url, Err: err}
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "unexpected status")
		d.tel.ReportBroken(report_directory_fetch, res.Status(), url)
		return nil, &FetchError{URL: url, Status: res.StatusCode()}
	}

	var regions []Region
	err = json.Unmarshal(res.Body(), &regions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode")
		d.tel.ReportBroken(report_directory_fetch, err, url)
		return nil, &FetchError{URL: url, Status: res.StatusCode(), Err: err}
	}
	if regions == nil {
		regions = []Region{}
	}

	d.cache.Set(key, regions, d.ttl)
	return clone(regions), nil
}

// clone keeps callers from mutating the slice held by the cache.
func clone(regions []Region) []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}
