package telemetry

import (
	"fmt"
)

// API is where every package sends its logs and counters. Tests swap in a
// Recorder to assert on what was reported.
//
// Ids name the component that reported, ex. "prices.aggregate.adapter". Details
// such as the error or the provider key go in params.
type API interface {
	// ReportBroken is for failures someone needs to look at.
	ReportBroken(id string, params ...any)
	// ReportWarning is for degraded results the service recovered from, ex. a
	// provider that failed inside an otherwise good snapshot.
	ReportWarning(id string, params ...any)
	ReportDebug(msg string, params ...any)
	// ReportCount records a gauge-like value, successive counts are not summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a package namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) id(id string) string {
	return s.namespace + "." + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.id(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.id(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.id(id), count)
}
