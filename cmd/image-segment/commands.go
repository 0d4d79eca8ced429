package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/image-segment-mcp/internal/config"
	"github.com/ironsheep/image-segment-mcp/internal/imaging"
	"github.com/ironsheep/image-segment-mcp/internal/logging"
	"github.com/ironsheep/image-segment-mcp/internal/server"
)

// app carries state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	logger *zap.Logger
	level  zap.AtomicLevel

	configFile string
	logLevel   string
	logFormat  string
}

func newRootCommand(ctx context.Context) *cobra.Command {
	a := &app{ctx: ctx}

	rootCmd := &cobra.Command{
		Use:   "image-segment",
		Short: "Graph-based image segmentation, as a CLI or an MCP server",
		Long: `image-segment partitions an image into regions of similar intensity by
merging pixels along the edges of their 8-connected neighbor graph, lightest
edges first. The k parameter sets how readily regions merge: larger k gives
fewer, larger regions.

Settings come from built-in defaults, then --config, then IMAGE_SEGMENT_*
environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(
		newServeCommand(a),
		newSegmentCommand(a),
		newMSTCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

// setup resolves configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(a.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, level, err := logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.level = level
	return nil
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run a Model Context Protocol server speaking JSON-RPC 2.0 over stdio.
Configure it in your MCP client; logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := server.New(
				server.WithConfig(a.cfg),
				server.WithLogger(a.logger),
				server.WithLogLevel(a.level),
				server.WithVersion(Version),
			)
			return srv.Serve(a.ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// pipelineFlags are the pipeline flags shared by segment and mst. Only
// segment registers -k.
type pipelineFlags struct {
	k      float64
	blur   float64
	width  int
	region string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.blur, "blur", imaging.DefaultBlurRadius, "Gaussian blur radius; 0 disables smoothing")
	cmd.Flags().IntVar(&f.width, "width", imaging.DefaultResizeWidth, "resize to this many columns first; 0 keeps the source size")
	cmd.Flags().StringVar(&f.region, "region", "", "only process a named region (top-left, center, left-half, ...)")
}

// options merges the flags the user actually set over the configuration.
// k is only consulted on commands that define a -k flag.
func (f *pipelineFlags) options(cmd *cobra.Command, cfg *config.Config, img image.Image) (imaging.SegmentOptions, error) {
	opts := cfg.SegmentOptions()
	if cmd.Flags().Changed("k") {
		if f.k < 0 {
			return opts, fmt.Errorf("-k must not be negative, got %g", f.k)
		}
		opts.K = f.k
	}
	if cmd.Flags().Changed("blur") {
		opts.BlurRadius = f.blur
	}
	if cmd.Flags().Changed("width") {
		opts.ResizeWidth = f.width
	}
	if opts.BlurRadius < 0 || opts.ResizeWidth < 0 {
		return opts, errors.New("--blur and --width must not be negative")
	}
	if f.region != "" {
		r, err := imaging.NamedRegion(img.Bounds(), f.region)
		if err != nil {
			return opts, err
		}
		opts.Region = &r
	}
	return opts, nil
}

func newSegmentCommand(a *app) *cobra.Command {
	var (
		pf      pipelineFlags
		output  string
		seed    int64
		outline bool
		stats   int
	)

	cmd := &cobra.Command{
		Use:   "segment <image>",
		Short: "Segment an image and write a colorized result",
		Example: `  image-segment segment photo.jpg -o regions.png -k 30000
  image-segment segment scan.png -k 800 --width 0 --blur 0 --stats 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			img, err := imaging.NewImageCache().Load(in)
			if err != nil {
				return err
			}
			opts, err := pf.options(cmd, a.cfg, img)
			if err != nil {
				return err
			}
			render := a.cfg.RenderOptions()
			if cmd.Flags().Changed("seed") {
				render.Seed = seed
			}
			if cmd.Flags().Changed("outline") {
				render.Outline = outline
			}
			if output == "" {
				output = defaultOutputPath(in)
			}

			seg, err := imaging.Segment(a.ctx, img, opts)
			if err != nil {
				return err
			}
			colored, err := imaging.Colorize(a.ctx, seg.Partition, render)
			if err != nil {
				return err
			}
			if err := imaging.SaveImage(colored, output); err != nil {
				return err
			}
			summary, err := imaging.Summarize(a.ctx, seg, render, false)
			if err != nil {
				return err
			}

			a.logger.Info("segmentation finished",
				zap.String("input", in),
				zap.String("output", output),
				zap.Float64("k", opts.K),
				zap.Int("regions", summary.Regions),
				zap.Duration("elapsed", seg.Elapsed))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %dx%d, %s regions (largest %s px, mean %.1f px) in %.1f ms\n",
				in, summary.Width, summary.Height,
				humanize.Comma(int64(summary.Regions)),
				humanize.Comma(int64(summary.LargestRegion)),
				summary.MeanRegionSize, summary.ElapsedMS)
			if fi, err := os.Stat(output); err == nil {
				fmt.Fprintf(out, "wrote %s (%s)\n", output, humanize.Bytes(uint64(fi.Size())))
			}

			if stats > 0 {
				for _, r := range imaging.RegionStats(seg.Partition, seg.Intensity, stats, render.Seed) {
					fmt.Fprintf(out, "  region %-8d %s %8s px %6.2f%%  box (%d,%d)-(%d,%d)  mean %.1f sd %.1f\n",
						r.ID, r.Color, humanize.Comma(int64(r.Size)), r.Percentage,
						r.Bounds.X1, r.Bounds.Y1, r.Bounds.X2, r.Bounds.Y2,
						r.MeanIntensity, r.StdDevIntensity)
				}
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output image path (default <image>-segmented.png)")
	cmd.Flags().Float64VarP(&pf.k, "k", "k", imaging.DefaultK, "merge sensitivity; larger gives fewer, larger regions")
	cmd.Flags().Int64Var(&seed, "seed", 1, "palette seed")
	cmd.Flags().BoolVar(&outline, "outline", false, "draw region boundaries in black")
	cmd.Flags().IntVar(&stats, "stats", 0, "print statistics for the N largest regions")
	return cmd
}

func newMSTCommand(a *app) *cobra.Command {
	var pf pipelineFlags

	cmd := &cobra.Command{
		Use:   "mst <image>",
		Short: "Compute the minimum spanning tree of an image's pixel graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := imaging.NewImageCache().Load(args[0])
			if err != nil {
				return err
			}
			opts, err := pf.options(cmd, a.cfg, img)
			if err != nil {
				return err
			}
			result, err := imaging.SpanningTree(img, opts.PreprocessOptions)
			if err != nil {
				return err
			}

			a.logger.Debug("spanning tree finished",
				zap.String("input", args[0]),
				zap.Int("vertices", result.Vertices),
				zap.Float64("weight", result.Weight))

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %s vertices, %s tree edges, weight %s, max edge %g\n",
				args[0], result.Width, result.Height,
				humanize.Comma(int64(result.Vertices)),
				humanize.Comma(int64(result.Edges)),
				humanize.Commaf(result.Weight),
				result.MaxEdge)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version needs neither config nor logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "image-segment %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

// defaultOutputPath derives "<name>-segmented.png" next to the input.
func defaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "-segmented.png"
}
