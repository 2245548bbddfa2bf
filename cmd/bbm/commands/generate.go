package commands

import (
	"bbm-backend/internal/prices"
	"bbm-backend/internal/serviceutil"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	generateOut     *string
	generateOffline *bool
)

func init() {
	generateOut = generateCmd.Flags().String("out", "public/api/prices.json", "The file to write the snapshot to.")
	generateOffline = generateCmd.Flags().Bool("offline", false, "Match provinces against the built-in list instead of the region API.")
	rootCmd.AddCommand(generateCmd)
}

type generatedFile struct {
	Success bool            `json:"success"`
	Data    prices.Snapshot `json:"data"`
}

// writeSnapshot writes the snapshot in the shape GET /prices responds with.
func writeSnapshot(path string, snapshot prices.Snapshot) error {
	data, err := json.MarshalIndent(generatedFile{Success: true, Data: snapshot}, "", "  ")
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var generateCmd = &cobra.Command{
	Use:   "generate [--out <path/to/prices.json>] [--offline]",
	Short: "Aggregates every provider once and writes the snapshot as static JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(config, *generateOffline)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}

		snapshot, err := app.service.Snapshot(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to aggregate prices", err)
		}

		err = writeSnapshot(*generateOut, snapshot)
		if err != nil {
			serviceutil.Fatal("failed to write snapshot", err)
		}
		slog.Info("wrote snapshot", "path", *generateOut, "providers", len(snapshot.Providers))
	},
}
