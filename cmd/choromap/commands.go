package main

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"choromap/internal/geom"
	"choromap/internal/projection"
	"choromap/internal/raster"
	"choromap/internal/rates"
	"choromap/internal/topo"
	"choromap/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [topology]",
		Short: "Show the choropleth in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the alt screen owns the terminal
			if err := a.init(cmd, false); err != nil {
				return err
			}
			defer a.log.Sync()
			path := a.cfg.Topology
			if len(args) == 1 {
				path = args[0]
			}
			opts := tui.Options{
				Projection: a.cfg.Projection,
				Build:      a.cfg.BuildOptions(a.log),
				RatesPath:  a.cfg.Rates,
				Normalize:  a.cfg.RatesNormalize,
				Logger:     a.log,
			}
			var m tui.Model
			var err error
			if path != "" {
				m, err = tui.NewWithPath(path, opts)
			} else {
				m, err = tui.New(opts)
			}
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			return err
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [topology]",
		Short: "Render the choropleth to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd, true); err != nil {
				return err
			}
			defer a.log.Sync()
			t, rt, err := a.loadInputs(args)
			if err != nil {
				return err
			}
			d, err := geom.Build(cmd.Context(), t, rt, a.cfg.BuildOptions(a.log))
			if err != nil {
				return err
			}
			chain, err := projection.Build(a.cfg.Projection)
			if err != nil {
				return err
			}
			w, h := a.cfg.Render.Width, a.cfg.Render.Height
			canvas := a.cfg.Projection.Canvas
			aspect := 0.0
			if canvas.Height() != 0 {
				aspect = canvas.Width() / canvas.Height()
			}
			vp := projection.FitViewport(aspect, float64(w), float64(h))
			chain = chain.WithViewport(vp)

			opts := raster.DefaultOptions(w, h)
			if _, ok := chain.Stage("orthographic"); ok {
				opts.StrokeScale = vp.Width / canvas.Width()
			}
			out := a.cfg.Render.Output
			if err := raster.RenderFile(out, d.Project(chain.Projection()), opts); err != nil {
				return err
			}
			a.log.Info("rendered map",
				zap.String("output", out),
				zap.Int("width", w),
				zap.Int("height", h),
				zap.Int("counties", len(d.Features)),
				zap.Int("skipped", len(d.Skipped)))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "map.png", "PNG output file")
	cmd.Flags().Int("width", 960, "Image width in pixels")
	cmd.Flags().Int("height", 600, "Image height in pixels")
	return cmd
}

func newGeoJSONCmd(a *app) *cobra.Command {
	var object string
	var projected bool
	cmd := &cobra.Command{
		Use:   "geojson [topology]",
		Short: "Write a topology object as a GeoJSON FeatureCollection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd, true); err != nil {
				return err
			}
			defer a.log.Sync()
			t, rt, err := a.loadInputs(args)
			if err != nil {
				return err
			}
			if object == "" {
				object = a.cfg.Objects.Counties
			}
			features, err := t.Features(object)
			if err != nil {
				return err
			}
			var proj orb.Projection
			if projected {
				chain, err := projection.Build(a.cfg.Projection)
				if err != nil {
					return err
				}
				proj = chain.Projection()
			}
			b, err := geom.FeatureCollection(features, rt, proj).MarshalJSON()
			if err != nil {
				return errors.Wrap(err, "encode geojson")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVar(&object, "object", "", "Topology object to export (default objects.counties)")
	cmd.Flags().BoolVar(&projected, "projected", false, "Project coordinates to viewport pixels")
	return cmd
}

func newProjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "project LON LAT",
		Short:   "Print where a position lands on the map",
		Example: "  choromap project -- -149.9 61.2",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd, true); err != nil {
				return err
			}
			defer a.log.Sync()
			lon, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.Wrapf(err, "longitude %q", args[0])
			}
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.Wrapf(err, "latitude %q", args[1])
			}
			chain, err := projection.Build(a.cfg.Projection)
			if err != nil {
				return err
			}
			p := orb.Point{lon, lat}
			if st, ok := chain.Stage("albers-usa"); ok {
				if c, ok := st.(*projection.Composite); ok {
					r, matched := c.Route(p)
					fmt.Fprintf(cmd.OutOrStdout(), "region=%s matched=%t\n", r.Name, matched)
				}
			}
			out := chain.Apply(p)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "x=%.3f y=%.3f\n", out[0], out[1])
			return err
		},
	}
}

// loadInputs reads the topology, from args or configuration, and the
// optional rate table.
func (a *app) loadInputs(args []string) (*topo.Topology, *rates.Table, error) {
	path := a.cfg.Topology
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return nil, nil, errors.New("no topology: pass a file or set --topology")
	}
	t, err := topo.Load(path)
	if err != nil {
		return nil, nil, err
	}
	var rt *rates.Table
	if a.cfg.Rates != "" {
		if rt, err = rates.Load(a.cfg.Rates, a.cfg.RatesNormalize); err != nil {
			return nil, nil, err
		}
	}
	a.log.Debug("loaded inputs",
		zap.String("topology", path),
		zap.Int("arcs", len(t.Arcs)),
		zap.Int("rates", rt.Len()))
	return t, rt, nil
}
