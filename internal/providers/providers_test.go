package providers

import (
	"bbm-backend/internal/prices"
	"bbm-backend/internal/telemetry"
	"context"
	"embed"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.html
var testdata embed.FS

// newPageServer serves the given testdata files by path, any other path is a 500.
func newPageServer(t testing.TB, pages map[string]string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		page, err := testdata.ReadFile("testdata/" + name)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	t.Cleanup(server.Close)
	return server
}

var testClientOptions = ClientOptions{RequestsPerSecond: 1000}

func diffRecords(t testing.TB, expected, actual []prices.RawPriceRecord) {
	t.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatal(diff)
	}
}

func TestPertamina(t *testing.T) {
	server := newPageServer(t, map[string]string{
		"/table": "pertamina.html",
		"/cards": "pertamina_cards.html",
	})
	tel := &telemetry.Recorder{}
	client := NewClient(tel, testClientOptions)

	records, err := NewPertamina(client, server.URL+"/table", tel).Fetch(context.Background())
	require.NoError(t, err)
	diffRecords(t, []prices.RawPriceRecord{
		{
			Province: "Prov. DKI Jakarta",
			Products: map[string]int64{
				"Pertalite":      10000,
				"Pertamax":       12500,
				"Pertamax Green": 13250,
				"Pertamax Turbo": 13700,
				"Pertamina Dex":  13600,
				"Dexlite":        13200,
				"Solar":          6800,
			},
		},
		{
			Province: "Prov. Jawa Barat",
			Products: map[string]int64{
				"Pertalite":      10000,
				"Pertamax":       12500,
				"Pertamax Turbo": 13700,
				"Pertamina Dex":  13600,
				"Dexlite":        13200,
				"Solar":          6800,
			},
		},
		{
			Province: "Prov. Papua",
			Products: map[string]int64{
				"Pertalite":     10000,
				"Pertamax":      12800,
				"Pertamina Dex": 13900,
				"Dexlite":       13500,
				"Solar":         6800,
			},
		},
	}, records)

	records, err = NewPertamina(client, server.URL+"/cards", tel).Fetch(context.Background())
	require.NoError(t, err)
	diffRecords(t, []prices.RawPriceRecord{
		{
			Province: "Aceh",
			Products: map[string]int64{"Pertalite": 10000, "Pertamax": 12800},
		},
		{
			Province: "Bali",
			Products: map[string]int64{"Pertalite": 10000, "Pertamax": 12500, "Pertamax Green": 13250},
		},
	}, records)
}

func TestPertaminaFailure(t *testing.T) {
	server := newPageServer(t, nil)
	tel := &telemetry.Recorder{}
	client := NewClient(tel, testClientOptions)

	records, err := NewPertamina(client, server.URL+"/down", tel).Fetch(context.Background())
	require.Error(t, err)
	require.Nil(t, records)

	broken := tel.Reports("broken")
	require.NotEmpty(t, broken)
	require.Equal(t, "providers."+report_pertamina_fetch, broken[len(broken)-1].ID)
}

func TestShell(t *testing.T) {
	server := newPageServer(t, map[string]string{"/harga": "shell.html"})
	tel := &telemetry.Recorder{}
	client := NewClient(tel, testClientOptions)

	records, err := NewShell(client, server.URL+"/harga", tel).Fetch(context.Background())
	require.NoError(t, err)
	diffRecords(t, []prices.RawPriceRecord{
		{
			Province: "DKI Jakarta",
			Products: map[string]int64{"Shell Super": 12700, "Shell V-Power": 13190},
		},
		{
			Province: "Banten",
			Products: map[string]int64{"Shell Super": 12700, "Shell V-Power": 13190},
		},
		{
			Province: "Jawa Barat",
			Products: map[string]int64{"Shell Super": 12700},
		},
		{
			Province: "Jawa Timur",
			Products: map[string]int64{"Shell Super": 12700},
		},
		{
			Province: "Sumatera Utara",
			Products: map[string]int64{"Shell V-Power Diesel": 13860, "Shell Super": 12990},
		},
	}, records)
}

func TestShellFallback(t *testing.T) {
	server := newPageServer(t, map[string]string{"/empty": "bp_cards.html"})
	tel := &telemetry.Recorder{}
	client := NewClient(tel, testClientOptions)

	fallbackProducts := map[string]int64{
		"Shell Super":          12700,
		"Shell V-Power":        13190,
		"Shell V-Power Diesel": 13860,
		"Shell V-Power Nitro+": 13480,
	}
	expected := []prices.RawPriceRecord{
		{Province: "DKI Jakarta", Products: fallbackProducts, Note: shellFallbackNote},
		{Province: "Banten", Products: fallbackProducts, Note: shellFallbackNote},
		{Province: "Jawa Barat", Products: fallbackProducts, Note: shellFallbackNote},
	}

	for _, path := range []string{"/empty", "/down"} {
		records, err := NewShell(client, server.URL+path, tel).Fetch(context.Background())
		require.NoError(t, err, path)
		diffRecords(t, expected, records)
	}

	require.Len(t, tel.Reports("warning"), 1)
}

func TestBP(t *testing.T) {
	server := newPageServer(t, map[string]string{
		"/table": "bp.html",
		"/cards": "bp_cards.html",
		"/empty": "pertamina_cards.html",
	})
	tel := &telemetry.Recorder{}
	client := NewClient(tel, testClientOptions)
	ctx := context.Background()

	jabodetabek := map[string]int64{"BP 92": 12890, "BP Ultimate": 13500, "BP Ultimate Diesel": 13860}
	records, err := NewBP(client, server.URL+"/table", tel).Fetch(ctx)
	require.NoError(t, err)
	diffRecords(t, []prices.RawPriceRecord{
		{Province: "DKI Jakarta", Products: jabodetabek},
		{Province: "Banten", Products: jabodetabek},
		{Province: "Jawa Barat", Products: jabodetabek},
		{Province: "Jawa Timur", Products: map[string]int64{"BP 92": 12990, "BP Ultimate Diesel": 13960}},
	}, records)

	records, err = NewBP(client, server.URL+"/cards", tel).Fetch(ctx)
	require.NoError(t, err)
	diffRecords(t, []prices.RawPriceRecord{
		{Province: "Jawa Timur", Products: map[string]int64{"BP Ultimate": 13550}},
		{Province: "DKI Jakarta", Products: map[string]int64{"BP 92": 12890}},
		{Province: "Banten", Products: map[string]int64{"BP 92": 12890}},
		{Province: "Jawa Barat", Products: map[string]int64{"BP 92": 12890}},
	}, records)

	records, err = NewBP(client, server.URL+"/empty", tel).Fetch(ctx)
	require.NoError(t, err)
	diffRecords(t, []prices.RawPriceRecord{{
		Province: unavailableProvince,
		Products: map[string]int64{},
		Note:     bpUnavailableNote,
	}}, records)

	_, err = NewBP(client, server.URL+"/down", tel).Fetch(ctx)
	require.Error(t, err)
}

func TestStatic(t *testing.T) {
	records, err := Vivo().Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		require.Equal(t, estimateNote, record.Note)
		require.EqualValues(t, 12700, record.Products["Revvo 92"])
	}

	// results are copies
	records[0].Products["Revvo 92"] = 1
	again, err := Vivo().Fetch(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 12700, again[0].Products["Revvo 92"])

	records, err = Mobil().Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, "Jawa Timur", records[3].Province)

	custom := NewStatic(StaticConfig{
		Note: "Harga per 1 Januari",
		Records: []prices.RawPriceRecord{
			{Province: "Bali", Products: map[string]int64{"Gasoline 92": 12900}},
			{Province: "Aceh", Products: map[string]int64{"Gasoline 92": 12900}, Note: "Banda Aceh saja"},
		},
	})
	records, err = custom.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Harga per 1 Januari", records[0].Note)
	require.Equal(t, "Banda Aceh saja", records[1].Note)
}

func TestRegistry(t *testing.T) {
	tel := &telemetry.Recorder{}

	adapters := New(tel, Options{
		Static: map[string]StaticConfig{
			" Esso ": {Records: []prices.RawPriceRecord{{Province: "Bali", Products: map[string]int64{"Esso 92": 12500}}}},
			"shell":  {Records: []prices.RawPriceRecord{{Province: "Bali", Products: map[string]int64{"Shell Super": 12900}}}},
		},
		Disabled: []string{"Mobil"},
	})

	keys := map[prices.ProviderKey]bool{}
	for key := range adapters {
		keys[key] = true
	}
	require.Equal(t, map[prices.ProviderKey]bool{
		prices.Pertamina: true,
		prices.Shell:     true,
		prices.BP:        true,
		prices.Vivo:      true,
		"esso":           true,
	}, keys)

	records, err := adapters[prices.Shell].Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bali", records[0].Province)
}

func TestClientHeaders(t *testing.T) {
	userAgents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("user-agent")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	tel := &telemetry.Recorder{}
	_, err := fetchDocument(context.Background(), NewClient(tel, testClientOptions), server.URL)
	require.NoError(t, err)
	require.Equal(t, userAgent, <-userAgents)
	require.NotEmpty(t, tel.Reports("debug"))
}
