// cmd/tools/quality-report/commands.go
package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"manufacturer-quality/internal/api"
	"manufacturer-quality/internal/manufacturing/dashboard"
	"manufacturer-quality/internal/manufacturing/quality"
)

var (
	searchQuery string
	defectID    string
	chatModelID string
	chatLocID   string
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the quality overview snapshot",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List vehicle model defect summaries",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

var modelCmd = &cobra.Command{
	Use:   "model <model-id>",
	Short: "Show the defect breakdown of one vehicle model",
	Long: `Show the defect breakdown of one vehicle model. Unknown ids fall back to the
first model in the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runModel,
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List plant defect summaries",
	Args:  cobra.NoArgs,
	RunE:  runLocations,
}

var locationCmd = &cobra.Command{
	Use:   "location <loc-id>",
	Short: "Show the defect breakdown of one plant",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocation,
}

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the quality assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Fetch the overview, models and locations in one go",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	modelsCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Keep models whose name or top defect category matches")
	locationsCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Keep plants whose name or region matches")
	dashboardCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Filter the model and location lists")

	modelCmd.Flags().StringVar(&defectID, "defect", "", "Defect id to expand in the table (defaults to the most frequent)")

	chatCmd.Flags().StringVar(&chatModelID, "model", "", "Model id the question is about")
	chatCmd.Flags().StringVar(&chatLocID, "location", "", "Plant id the question is about")
}

// newState builds the dashboard view state from the global filter flags.
func newState() (*dashboard.State, error) {
	state := dashboard.NewState()
	if !state.SetTimeRange(quality.TimeRange(timeRange)) {
		return nil, fmt.Errorf("invalid time range %q (want 30days, 90days or 180days)", timeRange)
	}
	if !state.SetRegion(region) {
		return nil, fmt.Errorf("unknown region %q", region)
	}
	state.SearchQuery = searchQuery
	return state, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runOverview(cmd *cobra.Command, args []string) error {
	state, err := newState()
	if err != nil {
		return err
	}

	overview, err := newService().GetOverview(commandContext(cmd), state.OverviewParams())
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), overview, func(tw *tabwriter.Writer) {
		writeOverview(tw, overview)
	})
}

func writeOverview(tw *tabwriter.Writer, o *quality.OverviewSnapshot) {
	row(tw, "PERIOD", o.Period)
	row(tw, "TOTAL DEFECTS", o.TotalDefects)
	row(tw, "RESOLVED THIS MONTH", o.ResolvedThisMonth)
	row(tw, "AVG RESOLUTION (DAYS)", fmt.Sprintf("%.1f", o.AvgResolutionTime))
	row(tw, "CAPA", fmt.Sprintf("proposed=%d accepted=%d in-progress=%d implemented=%d",
		o.CAPAStatus.Proposed, o.CAPAStatus.Accepted, o.CAPAStatus.InProgress, o.CAPAStatus.Implemented))
	row(tw)

	row(tw, "MODEL", "TREND", "INCREASE", "TOP DEFECT")
	for _, m := range o.ModelsWithRisingDefects {
		row(tw, m.ModelName, m.Trend, percent(m.IncreasePercentage), m.TopDefect)
	}
	row(tw)

	row(tw, "CATEGORY", "INCIDENTS", "AFFECTED MODELS")
	for _, c := range o.TopDefectCategories {
		row(tw, c.Category, c.Incidents, c.AffectedModels)
	}
}

type modelsView struct {
	Models []quality.ModelSummary   `json:"models"`
	Stats  dashboard.ModelListStats `json:"stats"`
}

func runModels(cmd *cobra.Command, args []string) error {
	state, err := newState()
	if err != nil {
		return err
	}

	rows, err := newService().ListModels(commandContext(cmd), state.ModelsParams())
	if err != nil {
		return err
	}

	view := modelsView{
		Models: state.FilterModels(rows),
		Stats:  dashboard.ModelStats(rows),
	}
	return render(cmd.OutOrStdout(), view, func(tw *tabwriter.Writer) {
		writeModels(tw, view)
	})
}

func writeModels(tw *tabwriter.Writer, view modelsView) {
	row(tw, "ID", "MODEL", "DEFECTS", "OPEN CAPA", "CLOSED CAPA", "TREND", "CHANGE", "TOP CATEGORY", "REGIONS")
	for _, m := range view.Models {
		row(tw, m.ModelID, m.ModelName, m.TotalDefects, m.OpenCAPA, m.ClosedCAPA,
			m.Trend, percent(m.TrendPercentage), m.TopDefectCategory, list(m.AffectedRegions))
	}
	row(tw)
	row(tw, "TOTAL DEFECTS", view.Stats.TotalDefects)
	row(tw, "OPEN CAPA", view.Stats.OpenCAPA)
	row(tw, "INCREASING", view.Stats.IncreasingCount)
}

func runModel(cmd *cobra.Command, args []string) error {
	state := dashboard.NewState()
	state.SelectedDefectID = strings.TrimSpace(defectID)

	detail, err := newService().GetModelDefects(commandContext(cmd), strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), detail, func(tw *tabwriter.Writer) {
		stats := dashboard.ComputeModelDetailStats(detail)
		row(tw, "MODEL", fmt.Sprintf("%s (%s)", detail.ModelName, detail.ModelID))
		row(tw, "TOTAL DEFECTS", detail.TotalDefects)
		row(tw, "REGIONS", list(detail.RegionsImpacted))
		row(tw, "TOP DEFECT", detail.TopDefectCategory)
		row(tw, "CAPA", fmt.Sprintf("%d of %d implemented", stats.ImplementedCAPA, stats.TotalCAPA))
		row(tw, "AVG RCA CONFIDENCE", percent(stats.AvgRCAConfidence*100))
		row(tw)

		row(tw, "DEFECT ID", "DEFECT", "INCIDENTS", "TREND", "CHANGE", "RCA CONFIDENCE", "CAPA")
		for _, d := range detail.DefectTypes {
			row(tw, d.DefectID, d.Defect, d.Incidents, d.Trend, percent(d.TrendPercentage),
				percent(d.RCAConfidence*100), len(d.CAPAItems))
		}

		if selected := state.SelectDefect(detail); selected != nil {
			row(tw)
			writeDefect(tw, selected)
		}
	})
}

func writeDefect(tw *tabwriter.Writer, d *quality.DefectType) {
	row(tw, "SELECTED DEFECT", fmt.Sprintf("%s (%s)", d.Defect, d.DefectID))
	row(tw, "MILEAGE", d.MileageRange)
	row(tw, "REGIONS", list(d.Regions))
	row(tw, "RCA", d.RCA)
	row(tw, "ROOT CAUSE", d.RootCauseDetails)
	row(tw, "COMPONENTS", list(d.ImpactedComponents))
	row(tw)

	row(tw, "CAPA ID", "TYPE", "STATUS", "ASSIGNED TO", "DUE", "AI CONFIDENCE", "ACTION")
	for _, c := range d.CAPAItems {
		confidence := "-"
		if c.AIConfidence != nil {
			confidence = percent(*c.AIConfidence * 100)
		}
		row(tw, c.ID, c.Type, c.Status, c.AssignedTo, c.DueDate, confidence, c.Action)
	}
}

func runLocations(cmd *cobra.Command, args []string) error {
	state, err := newState()
	if err != nil {
		return err
	}

	rows, err := newService().ListLocations(commandContext(cmd), state.LocationsParams())
	if err != nil {
		return err
	}

	rows = state.FilterLocations(rows)
	return render(cmd.OutOrStdout(), rows, func(tw *tabwriter.Writer) {
		writeLocations(tw, rows)
	})
}

func writeLocations(tw *tabwriter.Writer, rows []quality.LocationSummary) {
	row(tw, "ID", "PLANT", "REGION", "DEFECTS", "OPEN CAPA", "TREND", "CHANGE", "TOP CATEGORY", "MODELS")
	for _, l := range rows {
		row(tw, l.LocID, l.Name, l.Region, l.DefectCount, l.OpenCAPACount,
			l.Trend, percent(l.TrendPercentage), l.TopDefectCategory, list(l.DominantModels))
	}
}

func runLocation(cmd *cobra.Command, args []string) error {
	detail, err := newService().GetLocationDefects(commandContext(cmd), strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), detail, func(tw *tabwriter.Writer) {
		stats := dashboard.ComputeLocationDetailStats(detail)
		row(tw, "PLANT", fmt.Sprintf("%s (%s)", detail.Name, detail.LocID))
		row(tw, "REGION", detail.Region)
		row(tw, "TOTAL DEFECTS", detail.TotalDefects)
		row(tw, "MODELS", list(detail.ModelsPresent))
		row(tw, "CAPA", fmt.Sprintf("%d open, %d implemented", stats.OpenCAPA, stats.ImplementedCAPA))
		row(tw)

		row(tw, "MODEL", "INCIDENTS", "TREND", "KEY DEFECTS")
		for _, m := range detail.DefectsByModel {
			row(tw, m.ModelName, m.Incidents, m.Trend, list(m.KeyDefects))
		}
		row(tw)

		row(tw, "CAPA ID", "MODEL", "DEFECT", "STATUS", "ACTION")
		for _, c := range detail.CAPAStatus {
			row(tw, c.CAPAID, c.Model, c.Defect, c.Status, c.Action)
		}
	})
}

func runChat(cmd *cobra.Command, args []string) error {
	state, err := newState()
	if err != nil {
		return err
	}
	state.ModelID = chatModelID
	state.LocID = chatLocID

	reply, err := newService().SendChatMessage(commandContext(cmd), quality.ChatRequest{
		Message: strings.Join(args, " "),
		Context: state.ChatContext(),
	})
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), reply, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "assistant\t%s\n\n", reply.Timestamp)
		fmt.Fprintln(tw, reply.Message)
	})
}

type dashboardView struct {
	State      *dashboard.State          `json:"state"`
	Overview   *quality.OverviewSnapshot `json:"overview"`
	Models     []quality.ModelSummary    `json:"models"`
	ModelStats dashboard.ModelListStats  `json:"modelStats"`
	Locations  []quality.LocationSummary `json:"locations"`
}

// loadDashboard fetches the three dashboard pages concurrently. The first
// failure cancels the other calls.
func loadDashboard(ctx context.Context, svc api.QualityService, state *dashboard.State) (*dashboardView, error) {
	var (
		overview  *quality.OverviewSnapshot
		models    []quality.ModelSummary
		locations []quality.LocationSummary
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		overview, err = svc.GetOverview(egCtx, state.OverviewParams())
		return err
	})
	eg.Go(func() error {
		var err error
		models, err = svc.ListModels(egCtx, state.ModelsParams())
		return err
	})
	eg.Go(func() error {
		var err error
		locations, err = svc.ListLocations(egCtx, state.LocationsParams())
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &dashboardView{
		State:      state,
		Overview:   overview,
		Models:     state.FilterModels(models),
		ModelStats: dashboard.ModelStats(models),
		Locations:  state.FilterLocations(locations),
	}, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	state, err := newState()
	if err != nil {
		return err
	}

	view, err := loadDashboard(commandContext(cmd), newService(), state)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), view, func(tw *tabwriter.Writer) {
		row(tw, "TIME RANGE", view.State.TimeRange)
		row(tw, "REGION", view.State.Region)
		row(tw)
		writeOverview(tw, view.Overview)
		row(tw)
		writeModels(tw, modelsView{Models: view.Models, Stats: view.ModelStats})
		row(tw)
		writeLocations(tw, view.Locations)
	})
}
