package commands

import (
	"bbm-backend/internal/cache"
	"bbm-backend/internal/chrono"
	"bbm-backend/internal/prices"
	"bbm-backend/internal/providers"
	"bbm-backend/internal/regions"
	"bbm-backend/internal/telemetry"
)

// app is every long-lived component, wired from the config.
type app struct {
	config    Config
	tel       telemetry.API
	time      chrono.TimeAPI
	cache     *cache.Cache
	directory regions.Directory
	service   *prices.Service
}

// newApp wires the components, offline uses the built-in province list instead of
// the region API.
func newApp(config Config, offline bool) (app, error) {
	durations, err := config.durations()
	if err != nil {
		return app{}, err
	}

	tel := telemetry.SlogAPI{}
	time := chrono.NewStandardTime()
	c := cache.New(time)

	var directory regions.Directory = regions.StaticDirectory{}
	if !offline {
		directory = regions.NewHttpDirectory(regions.HttpDirectoryOptions{
			BaseURL: config.RegionAPIURL,
			TTL:     durations.regionTTL,
		}, c, tel)
	}

	adapters := providers.New(tel, providers.Options{
		Client: providers.ClientOptions{
			Timeout:           durations.providerTimeout,
			RequestsPerSecond: config.Providers.RequestsPerSecond,
		},
		PertaminaURL: config.Providers.PertaminaURL,
		ShellURL:     config.Providers.ShellURL,
		BPURL:        config.Providers.BPURL,
		Static:       config.StaticProviders,
		Disabled:     config.Providers.Disabled,
	})

	aggregator := prices.NewAggregator(directory, time, tel, prices.AggregatorOptions{
		AdapterTimeout: durations.adapterTimeout,
		MatchOptions: []regions.MatchOption{
			regions.WithSimilarityThreshold(config.SimilarityThreshold),
		},
	})
	service := prices.NewService(aggregator, adapters, c, tel, prices.ServiceOptions{
		SnapshotTTL: durations.snapshotTTL,
	})

	return app{
		config:    config,
		tel:       tel,
		time:      time,
		cache:     c,
		directory: directory,
		service:   service,
	}, nil
}
