package prices

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProviderResultJSON(t *testing.T) {
	out, err := json.Marshal(Failed("timeout"))
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"timeout","data":[]}`, string(out))

	out, err = json.Marshal(ProviderResult{})
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(out))

	out, err = json.Marshal(Succeeded([]EnrichedPriceRecord{
		record("Atlantis", jakarta, map[string]int64{"Solar": 6800}),
	}))
	require.NoError(t, err)
	require.JSONEq(t, `[{
		"province": "Atlantis",
		"products": {"Solar": 6800},
		"provinceInfo": {"id": "31", "name": "DKI JAKARTA"}
	}]`, string(out))

	var decoded ProviderResult
	require.NoError(t, json.Unmarshal([]byte(` {"error":"timeout","data":[]}`), &decoded))
	require.Equal(t, Failed("timeout"), decoded)
}

func TestSnapshotJSON(t *testing.T) {
	snapshot := testSnapshot()
	out, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.True(t, snapshot.LastUpdated.Equal(decoded.LastUpdated))
	require.Equal(t, snapshot.Providers, decoded.Providers)
}
