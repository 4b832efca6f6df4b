package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/survey-simulator/core"
	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.json>",
	Short: "Check that a scenario file loads and wires cleanly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scn, err := loadScenarioFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			os.Exit(1)
		}

		// Constructing the survey exercises the same validation the run
		// command would hit, without simulating anything.
		if _, err := core.NewSurvey(core.SurveyParams{
			Clock:        scn.Clock,
			Catalog:      scn.Catalog,
			Universe:     scn.Universe,
			Geometry:     scn.Geometry,
			Optics:       core.NewBasicOpticalSystem(),
			Zodi:         core.NewUniformZodiacalLight(),
			Completeness: core.NewDecayCompleteness(),
			Stats:        core.NewThresholdDetection(),
			Modes:        scn.Modes,
			Occulter:     scn.Occulter,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "✓ %d stars, %d planets, %d observing modes\n",
			scn.Catalog.NStars(), scn.Universe.NPlanets(), len(scn.Modes))
		fmt.Fprintf(os.Stderr, "✓ mission life %.1f days, %d observing blocks\n",
			timekeeping.ToDays(scn.Clock.MissionLife), len(scn.Clock.Blocks()))
		if scn.Occulter != nil {
			fmt.Fprintf(os.Stderr, "✓ occulter: %.0f kg wet, %.0f kg dry\n",
				scn.Occulter.SCMass, scn.Occulter.DryMass)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
