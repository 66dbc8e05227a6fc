package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parksense/parksense/core/sim"
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Summarize a saved run report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var r sim.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s at %s\n", r.RunID, r.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "sensors: %d total, %d active, %d low battery, %d offline (health %.1f%%)\n",
		r.SimulationSummary.TotalSensors, r.SimulationSummary.ActiveSensors,
		r.SimulationSummary.LowBatterySensors, r.SimulationSummary.OfflineSensors,
		r.SimulationSummary.SensorHealthPct)
	fmt.Fprintf(out, "parking: %d occupied, %d free (%.1f%% occupancy)\n",
		r.ParkingStatus.OccupiedSlots, r.ParkingStatus.FreeSlots, r.ParkingStatus.OccupancyRatePct)
	fmt.Fprintf(out, "events: %d total, %d arrivals, %d departures\n",
		r.EventStatistics.TotalEvents, r.EventStatistics.Arrivals, r.EventStatistics.Departures)
	for loc, stats := range r.LocationBreakdown {
		fmt.Fprintf(out, "  %-20s %d/%d occupied (%.1f%%)\n", loc, stats.OccupiedSlots, stats.TotalSlots, stats.OccupancyRatePct)
	}
	return nil
}
