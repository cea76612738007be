package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

const defaultScenario = "solar"

var registry = experiment.NewRegistry()

var (
	dataDir    string
	configFile string
	frames     int
	dt         float64
	mode       string
	substeps   int
	timeScale  float64
	validate   bool
	save       bool
	jsonOut    string
	csvOut     string
	svgOut     string
	bodyIndex  int
	traceLen   int

	substepValues []int
	dtValues      []float64
	tuneMetric    string
	metricNames   []string
)

// main is the entry point for the gravsim CLI. With no subcommand it opens
// the terminal scenario picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "n-body gravity simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	engineFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "run a scenario in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	engineFlags(guiCmd)

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and report conservation metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	engineFlags(runCmd)
	frameFlags(runCmd)
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop at the first non-finite body")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under the data directory")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the time series as JSON (- for stdout)")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write the time series as CSV")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil,
		fmt.Sprintf("metrics to report (%s; default: drifts and collisions)", strings.Join(registry.ListMetrics(), ", ")))

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "run reference and corrected stepping side by side",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareModes,
	}
	engineFlags(compareCmd)
	frameFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scenario]",
		Short: "orbital periods and lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeScenario,
	}
	engineFlags(analyzeCmd)
	frameFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", 1, "body whose spectrum is plotted")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [scenario]",
		Short: "run a scenario and draw its traces as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	engineFlags(exportSVGCmd)
	frameFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default <scenario>.svg)")
	exportSVGCmd.Flags().IntVar(&traceLen, "trace", 0, "points per trace, 0 for all")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark stepping",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump-config [scenario]",
		Short: "print a scenario as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	engineFlags(dumpCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	runsCmd.AddCommand(&cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	})

	batchCmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "run a scripted batch of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "search substeps and dt for the smallest drift",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScenario,
	}
	engineFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&frames, "frames", 1000, "frames at the coarsest dt")
	tuneCmd.Flags().IntSliceVar(&substepValues, "substeps-values", []int{1, 2, 4, 8}, "substeps to try")
	tuneCmd.Flags().Float64SliceVar(&dtValues, "dt-values", nil, "frame dt values to try (default: 1, 1/2 and 1/4 of a 60 fps frame)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift",
		fmt.Sprintf("metric to minimise (%s)", strings.Join(registry.ListMetrics(), ", ")))

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, compareCmd, analyzeCmd, exportSVGCmd, benchCmd, presetsCmd, dumpCmd, runsCmd, batchCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func engineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mode, "mode", sim.ModeReference.String(),
		fmt.Sprintf("stepping mode (%s)", strings.Join(registry.ListModes(), "|")))
	cmd.Flags().IntVar(&substeps, "substeps", sim.DefaultSubsteps, "sub-steps per frame")
	cmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated seconds per real second")
}

func frameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 1000, "frames to run")
	cmd.Flags().Float64Var(&dt, "dt", 0, "seconds per frame (default: one 60 fps frame at the time scale)")
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// loadScenario resolves the scenario argument and applies the flags the
// user set explicitly on top of it.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := defaultScenario
	if len(args) > 0 {
		name = args[0]
	}
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = registry.GetScenario(name)
	}
	if err != nil {
		return nil, err
	}

	if changed(cmd, "mode") {
		if _, err := registry.GetMode(mode); err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}
	if changed(cmd, "substeps") {
		cfg.Substeps = substeps
	}
	if changed(cmd, "time-scale") {
		cfg.TimeScale = timeScale
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// frameDt is the --dt flag, or one 60 fps frame of scenario time.
func frameDt(cmd *cobra.Command, cfg *config.Config) float64 {
	if changed(cmd, "dt") {
		return dt
	}
	scale := cfg.TimeScale
	if scale <= 0 {
		scale = 1
	}
	return scale / 60
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// runHeadless runs cfg for the configured frames with the named metrics,
// or the default ones when names is empty.
func runHeadless(ctx context.Context, cfg *config.Config, ec experiment.Config, names []string) (*experiment.Result, error) {
	s, err := cfg.NewSimulation()
	if err != nil {
		return nil, err
	}
	ms, err := registry.Metrics(names, s.Config().G)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(ec)
	if err := exp.Setup(s, ms); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	step := frameDt(cmd, cfg)
	if _, err := registry.Metrics(metricNames, cfg.G); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	quiet := jsonOut == "-"
	if !quiet {
		fmt.Printf("running %s (%s, %d frames of %gs)...\n", cfg.Name, cfg.Mode, frames, step)
	}
	start := time.Now()
	result, err := runHeadless(ctx, cfg, experiment.Config{
		Frames:          frames,
		Dt:              step,
		Toggles:         cfg.Toggles(),
		ValidateState:   validate,
		RecordPositions: csvOut != "" || jsonOut != "",
	}, metricNames)
	var runErr *experiment.RunError
	switch {
	case errors.As(err, &runErr):
		fmt.Fprintf(os.Stderr, "warning: %v\n", runErr)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted")
	case err != nil:
		return err
	}
	elapsed := time.Since(start)

	info := export.RunInfo{Scenario: cfg.Name, Mode: cfg.Mode, Dt: step, Frames: frames}
	if jsonOut != "" {
		if quiet {
			return export.ExportJSONStdout(info, result)
		}
		if err := export.ExportJSON(jsonOut, info, result); err != nil {
			return err
		}
	}
	if csvOut != "" {
		if err := export.ExportCSV(csvOut, result); err != nil {
			return err
		}
	}

	fmt.Printf("completed %d frames in %v\n", result.FramesTaken, elapsed)
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(info, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	plotSeries(result.Energy, "total energy (J)")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "collisions\t%d\n", result.Collisions)
	fmt.Fprintf(w, "final energy drift\t%.3e\n", result.EnergyDrift)
	for _, name := range sortedMetricNames(result.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
	}
	return w.Flush()
}

func sortedMetricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func plotSeries(data []float64, caption string) {
	finite := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) < 2 {
		return
	}
	fmt.Println(asciigraph.Plot(finite,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
}

func compareModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	step := frameDt(cmd, cfg)

	modes := []sim.Mode{sim.ModeReference, sim.ModeCorrected}
	members := make([]*sim.Simulation, len(modes))
	initial := make([]float64, len(modes))
	for i, m := range modes {
		cfg.Mode = m.String()
		s, err := cfg.NewSimulation()
		if err != nil {
			return err
		}
		members[i] = s
		initial[i] = s.Energy()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing stepping modes for %s (%d frames of %gs)\n\n", cfg.Name, frames, step)
	start := time.Now()
	if err := sim.NewEnsemble(members...).Run(ctx, frames, step, cfg.Toggles()); err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tTIME\tCOLLISIONS\tENERGY DRIFT\t|P|\tCENTER")
	for i, s := range members {
		drift := math.NaN()
		if initial[i] != 0 {
			drift = math.Abs(s.Energy()-initial[i]) / math.Abs(initial[i])
		}
		fmt.Fprintf(w, "%s\t%.4gs\t%d\t%.3e\t%.3e\t%v\n",
			modes[i], s.Time(), s.Collisions(), drift, s.Momentum().Magnitude(), s.GravityCenter())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSEPARATION (m)")
	ref, cor := members[0].Bodies(), members[1].Bodies()
	for i := range ref {
		fmt.Fprintf(w, "%s\t%.6g\n", ref[i], ref[i].Position().Sub(cor[i].Position()).Length())
	}
	fmt.Fprintf(w, "\nelapsed\t%v\n", elapsed)
	return w.Flush()
}

func analyzeScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	step := frameDt(cmd, cfg)

	ctx, cancel := signalContext()
	defer cancel()

	result, err := runHeadless(ctx, cfg, experiment.Config{
		Frames:          frames,
		Dt:              step,
		Toggles:         cfg.Toggles(),
		RecordPositions: true,
	}, nil)
	if err != nil {
		return err
	}

	bodies, err := cfg.BuildBodies()
	if err != nil {
		return err
	}
	centers := centerTrack(bodies, result.Positions)

	fmt.Printf("analysis: %s (%d samples, dt=%gs)\n\n", cfg.Name, len(result.Times), step)

	if bodyIndex >= 0 && bodyIndex < len(result.Positions) {
		xs := make([]float64, len(centers))
		for i := range centers {
			xs[i] = result.Positions[bodyIndex][i].X() - centers[i].X()
		}
		ps := analysis.PowerSpectrum(xs)
		if len(ps) > 8 {
			plotSeries(ps[1:len(ps)/4], fmt.Sprintf("power spectrum (%s x offset)", result.Names[bodyIndex]))
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPERIOD\tPERIOD (days)")
	for i, track := range result.Positions {
		period := analysis.OrbitalPeriod(track, centers, step)
		if period == 0 {
			fmt.Fprintf(w, "%s\t-\t-\n", result.Names[i])
			continue
		}
		fmt.Fprintf(w, "%s\t%.4gs\t%.3f\n", result.Names[i], period, period/86400)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s, err := cfg.NewSimulation()
	if err != nil {
		return err
	}
	lambda := analysis.LyapunovExponent(s, cfg.Toggles(), step, frames, 1e-8*math.Max(1, s.Size().Length()))
	fmt.Printf("\nlargest lyapunov exponent: %.4g 1/s\n", lambda)
	return nil
}

// centerTrack rebuilds the gravity center at every sample from the recorded
// tracks. Masses never change during a run.
func centerTrack(bodies []*dynamo.Body, tracks [][]dynamo.Vector) []dynamo.Vector {
	if len(tracks) == 0 {
		return nil
	}
	n := len(tracks[0])
	centers := make([]dynamo.Vector, n)
	for i := 0; i < n; i++ {
		snapshot := make([]*dynamo.Body, len(bodies))
		for j, b := range bodies {
			spec := b.Spec()
			spec.Position = tracks[j][i]
			snapshot[j] = dynamo.MustBody(spec)
		}
		centers[i] = sim.GravityCenter(snapshot)
	}
	return centers
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulation()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	if err := sim.NewEnsemble(s).Run(ctx, frames, frameDt(cmd, cfg), cfg.Toggles()); err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = cfg.Name + ".svg"
	}
	svg := export.TracesToSVG(s.Bodies(), export.TracesOptions{
		Width:       cfg.Display.Width,
		Height:      cfg.Display.Height,
		TraceLength: traceLen,
		ShowNames:   true,
	})
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies, t=%.4gs)\n", out, len(s.Bodies()), s.Time())
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	step := frameDt(cmd, cfg)

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tSUBSTEPS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, m := range []sim.Mode{sim.ModeReference, sim.ModeCorrected} {
		for _, n := range []int{1, 2, 4, 8} {
			cfg.Mode, cfg.Substeps = m.String(), n
			s, err := cfg.NewSimulation()
			if err != nil {
				return err
			}
			const benchFrames = 2000
			start := time.Now()
			for i := 0; i < benchFrames; i++ {
				s.Step(step, cfg.Toggles())
			}
			elapsed := time.Since(start)
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n", m, n, benchFrames, elapsed, benchFrames/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tTIME SCALE\tG")
	for _, name := range registry.ListScenarios() {
		cfg, err := registry.GetScenario(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\n", name, len(cfg.Bodies), cfg.TimeScale, cfg.G)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tMODE\tTIME\tFRAMES\tDT\tCOLLISIONS\tENERGY DRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%gs\t%d\t%.3e\n",
			run.ID,
			run.Scenario,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.FramesTaken,
			run.Dt,
			run.Collisions,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	plotSeries(series.Energy, "total energy (J)")
	plotSeries(series.Momentum, "|momentum| (kg m/s)")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedMetricNames(meta.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, meta.Metrics[name])
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	if batch.Name != "" {
		fmt.Printf("batch: %s\n", batch.Name)
	}
	if batch.Description != "" {
		fmt.Printf("%s\n", batch.Description)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := automation.RunBatch(ctx, batch, storage.New(dataDir))

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tMODE\tFRAMES\tCOLLISIONS\tENERGY DRIFT\tRUN")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%.3e\t%s\n",
			i+1, r.Info.Scenario, r.Info.Mode, r.Result.FramesTaken, r.Result.Collisions, r.Result.EnergyDrift, id)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

// tuneScenario grid-searches substeps and frame dt. Every candidate covers
// the same span of simulated time so the drifts are comparable.
func tuneScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	if _, err := registry.GetMetric(tuneMetric, cfg.G); err != nil {
		return err
	}
	if len(substepValues) == 0 {
		return errors.New("tune: no substeps values")
	}

	dts := dtValues
	if len(dts) == 0 {
		base := frameDt(cmd, cfg)
		dts = []float64{base, base / 2, base / 4}
	}
	steps := make([]float64, len(substepValues))
	for i, n := range substepValues {
		steps[i] = float64(n)
	}
	coarsest := dts[0]
	for _, v := range dts {
		coarsest = math.Max(coarsest, v)
	}
	span := coarsest * float64(frames)

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		c.Substeps = int(params["substeps"])
		s, err := c.NewSimulation()
		if err != nil {
			return nil, err
		}
		step := params["dt"]
		exp := experiment.New(experiment.Config{
			Frames:  int(math.Round(span / step)),
			Dt:      step,
			Toggles: c.Toggles(),
		})
		ms, err := registry.Metrics([]string{tuneMetric}, s.Config().G)
		if err != nil {
			return nil, err
		}
		return exp, exp.Setup(s, ms)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("tuning %s over %.4gs (%d x %d candidates)\n", cfg.Name, span, len(steps), len(dts))
	g := optim.NewGridSearch([]string{"substeps", "dt"}, [][]float64{steps, dts})
	best, val, err := g.Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}
	fmt.Printf("best: substeps=%d dt=%gs %s=%.6g\n", int(best["substeps"]), best["dt"], tuneMetric, val)
	return nil
}
