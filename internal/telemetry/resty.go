package telemetry

import (
	"context"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

const (
	report_http_request  = "http.request"
	report_http_response = "http.response"
	report_http_error    = "http.error"
)

type requestSeqKey struct{}

// requestSeq is 0 when the request failed before it was numbered, ex. when the
// rate limiter rejected it.
func requestSeq(req *resty.Request) uint64 {
	seq, _ := req.Context().Value(requestSeqKey{}).(uint64)
	return seq
}

// InstrumentResty logs every request sent through client and its outcome.
// Requests are numbered so a response line can be paired with its request.
func InstrumentResty(client *resty.Client, tel API) {
	var seq atomic.Uint64

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		id := seq.Add(1)
		req.SetContext(context.WithValue(req.Context(), requestSeqKey{}, id))
		tel.ReportDebug(report_http_request, id, req.Method, req.URL)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		tel.ReportDebug(report_http_response, requestSeq(res.Request), res.Status(), res.Time().String())
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		tel.ReportBroken(report_http_error, requestSeq(req), req.Method, req.URL, err)
	})
}
