package providers

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/prices"
	"bbm-backend/internal/telemetry"
	"strings"
)

type Options struct {
	Client ClientOptions

	// page URLs, empty means the live site
	PertaminaURL string
	ShellURL     string
	BPURL        string

	// Static adds providers served from a fixed table, a name that is also a built-in
	// provider replaces it.
	Static map[string]StaticConfig
	// Disabled lists provider keys to leave out.
	Disabled []string
}

// New builds the adapter of every enabled provider, scrapers share one HTTP client.
func New(tel telemetry.API, opts Options) map[prices.ProviderKey]prices.Adapter {
	assert.NotNil(tel, "telemetry")

	client := NewClient(tel, opts.Client)

	adapters := map[prices.ProviderKey]prices.Adapter{
		prices.Pertamina: NewPertamina(client, opts.PertaminaURL, tel),
		prices.Shell:     NewShell(client, opts.ShellURL, tel),
		prices.BP:        NewBP(client, opts.BPURL, tel),
		prices.Vivo:      Vivo(),
		prices.Mobil:     Mobil(),
	}
	for name, config := range opts.Static {
		key := prices.ProviderKey(strings.ToLower(strings.TrimSpace(name)))
		if key == "" {
			continue
		}
		adapters[key] = NewStatic(config)
	}
	for _, name := range opts.Disabled {
		delete(adapters, prices.ProviderKey(strings.ToLower(strings.TrimSpace(name))))
	}

	return adapters
}
