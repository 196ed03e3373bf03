// Command choromap draws county choropleth maps from a TopoJSON topology
// and a rate table, in the terminal or as PNG.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"choromap/internal/config"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"topology":    "topology",
	"rates":       "rates",
	"workers":     "workers",
	"skip-errors": "skip_errors",
	"fallback":    "projection.fallback",
	"log-level":   "log.level",
	"log-file":    "log.file",
	"output":      "render.output",
	"width":       "render.width",
	"height":      "render.height",
}

// app carries the configuration shared by the subcommands.
type app struct {
	cfgFile string
	cfg     config.Config
	log     *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "choromap",
		Short: "County choropleth maps from TopoJSON",
		Long: `choromap resolves a TopoJSON topology, joins per-county rates and
projects it with a composite Albers USA projection. The map is shown in the
terminal, rendered to PNG or exported as GeoJSON.`,
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "",
		"Configuration file. Defaults to choromap.yaml in the working directory or $HOME/.config/choromap.")
	pf.String("topology", "", "TopoJSON topology file")
	pf.String("rates", "", "Tab or comma separated rate table with id and rate columns")
	pf.Int("workers", 0, "Parallel geometry resolution; 0 uses every CPU")
	pf.Bool("skip-errors", false, "Skip features that fail to resolve instead of failing")
	pf.String("fallback", "default", "Albers USA routing for positions outside every region: default or nearest")
	pf.String("log-level", "info", "Log level")
	pf.String("log-file", "", "Write logs to this file")

	root.AddCommand(
		newViewCmd(a),
		newRenderCmd(a),
		newGeoJSONCmd(a),
		newProjectCmd(a),
	)
	return root
}

// init loads the configuration for cmd. Logs go to stderr when stderr is
// set, otherwise only to log.file.
func (a *app) init(cmd *cobra.Command, stderr bool) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if a.cfg, err = config.Load(v); err != nil {
		return err
	}
	a.log, err = config.NewLogger(a.cfg.Log, stderr)
	return err
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
