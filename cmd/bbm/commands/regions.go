package commands

import (
	"bbm-backend/internal/regions"
	"bbm-backend/internal/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(regionsCmd)
}

var regionsCmd = &cobra.Command{
	Use:   "regions [provinceId [regencyId]]",
	Short: "Lists provinces, the regencies of a province or the districts of a regency.",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(config, false)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}

		var list []regions.Region
		switch len(args) {
		case 0:
			list, err = app.directory.ListProvinces(cmd.Context())
		case 1:
			list, err = app.directory.ListRegencies(cmd.Context(), args[0])
		default:
			list, err = app.directory.ListDistricts(cmd.Context(), args[1])
		}
		if err != nil {
			serviceutil.Fatal("failed to list regions", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, region := range list {
			t.AppendRow(table.Row{region.ID, region.Name})
		}
		t.Render()
	},
}
