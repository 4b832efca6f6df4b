package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/signalsfoundry/survey-simulator/core"
	"github.com/signalsfoundry/survey-simulator/internal/logging"
	"github.com/signalsfoundry/survey-simulator/internal/observability"
	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a survey simulation from a scenario file",
	RunE:  runSurvey,
}

func init() {
	runCmd.Flags().String("scenario", "", "path to the JSON scenario (required)")
	runCmd.Flags().StringP("output", "o", "", "write the mission log JSON here instead of stdout")
	runCmd.Flags().String("metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090)")
	runCmd.Flags().Int64("seed", 0, "override the scenario's random seed")
	_ = runCmd.MarkFlagRequired("scenario")

	_ = viper.BindPFlag("scenario", runCmd.Flags().Lookup("scenario"))
	_ = viper.BindPFlag("metrics_listen", runCmd.Flags().Lookup("metrics-listen"))

	rootCmd.AddCommand(runCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
	log := logging.NewFromEnv()
	if verbose, _ := rootCmd.Flags().GetBool("verbose"); verbose {
		log = logging.New(logging.Config{Level: "debug", AddSource: true})
	}
	ctx, log := logging.WithRunLogger(cmd.Context(), log)

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	scn, err := loadScenarioFile(viper.GetString("scenario"))
	if err != nil {
		return err
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		scn.Seed = seed
	}

	metrics, err := observability.NewSurveyCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if addr := viper.GetString("metrics_listen"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", addr))
	}

	survey, err := core.NewSurvey(core.SurveyParams{
		Clock:               scn.Clock,
		Catalog:             scn.Catalog,
		Universe:            scn.Universe,
		Geometry:            scn.Geometry,
		Optics:              core.NewBasicOpticalSystem(),
		Zodi:                core.NewUniformZodiacalLight(),
		Completeness:        core.NewDecayCompleteness(),
		Stats:               core.NewThresholdDetection(),
		Modes:               scn.Modes,
		TelescopeKeepoutDeg: scn.TelescopeKeepoutDeg,
		NtFlux:              scn.NtFlux,
		Occulter:            scn.Occulter,
		Seed:                scn.Seed,
		Logger:              log,
		Metrics:             metrics,
	})
	if err != nil {
		return fmt.Errorf("build survey: %w", err)
	}

	drm, err := survey.RunSim(ctx)
	if err != nil {
		return fmt.Errorf("run survey: %w", err)
	}
	log.Info(ctx, "mission finished",
		logging.Int("observations", len(drm)),
		logging.Float64("elapsed_days", timekeeping.ToDays(survey.Clock().CurrentTimeNorm())),
		logging.Float64("obs_budget_used_days", timekeeping.ToDays(survey.Clock().ExoplanetObsTime())),
	)

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(drm); err != nil {
		return fmt.Errorf("encode mission log: %w", err)
	}
	return nil
}

func loadScenarioFile(path string) (*core.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()
	scn, err := core.LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", path, err)
	}
	return scn, nil
}
