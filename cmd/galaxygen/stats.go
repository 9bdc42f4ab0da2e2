package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lox/galaxygen/cmd/galaxygen/shared"
	"github.com/lox/galaxygen/galaxy"
)

type StatsCmd struct {
	GalaxyFlags `embed:""`

	JSON bool `help:"Print the summary as JSON"`
}

func (c *StatsCmd) Run(globals *Globals) error {
	env, err := loadEnvironmentWithLogger(globals, &c.GalaxyFlags, quietLogger(globals))
	if err != nil {
		return err
	}
	ctx := shared.SetupSignalHandler(env.logger)

	cloud, err := env.session(&c.GalaxyFlags).Regenerate(ctx)
	if err != nil {
		return err
	}
	summary := galaxy.Summarize(cloud)

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	p := cloud.Params
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mode\t%s\n", p.Mode)
	fmt.Fprintf(w, "seed\t%d\n", p.Seed)
	fmt.Fprintf(w, "points\t%d\n", summary.Count)
	fmt.Fprintf(w, "mean distance\t%.3f\n", summary.MeanDistance)
	fmt.Fprintf(w, "std distance\t%.3f\n", summary.StdDistance)
	fmt.Fprintf(w, "median distance\t%.3f\n", summary.MedianDistance)
	fmt.Fprintf(w, "p90 distance\t%.3f\n", summary.P90Distance)
	fmt.Fprintf(w, "max distance\t%.3f\n", summary.MaxDistance)
	fmt.Fprintf(w, "beyond radius\t%.1f%%\n", summary.BeyondRadius*100)
	fmt.Fprintf(w, "bounds\t(%.1f, %.1f, %.1f) to (%.1f, %.1f, %.1f)\n",
		summary.Min.X, summary.Min.Y, summary.Min.Z, summary.Max.X, summary.Max.Y, summary.Max.Z)
	return w.Flush()
}
