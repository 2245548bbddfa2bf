package providers

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/telemetry"
	"bytes"
	"context"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	// Timeout of a single request, defaults to 60 seconds.
	Timeout time.Duration
	// RequestsPerSecond defaults to 2.
	RequestsPerSecond float64
}

// NewClient creates the HTTP client shared by the price page scrapers.
func NewClient(tel telemetry.API, opts ClientOptions) *resty.Client {
	assert.NotNil(tel, "telemetry")

	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept-language", "id-ID,id;q=0.9,en;q=0.8")
	client.SetTimeout(opts.Timeout)

	// burst >= 2 means no requests are dropped, they wait their turn
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("providers_http", tel))

	return client
}

// fetchDocument GETs url and parses it as html, non 2xx responses are errors.
func fetchDocument(ctx context.Context, client *resty.Client, url string) (*goquery.Document, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, res.Status())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
