package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/threecolours/internal/colour"
	"github.com/jmylchreest/threecolours/internal/config"
	"github.com/jmylchreest/threecolours/internal/image"
	"github.com/jmylchreest/threecolours/internal/preview"
	"github.com/jmylchreest/threecolours/internal/util/imagecache"
)

// extractOptions holds the extract command flags.
type extractOptions struct {
	size                  int
	frame                 int
	bucketThreshold       float64
	foregroundThreshold   float64
	middlegroundThreshold float64
	format                string
	output                string
	showPreview           bool
	show                  string
	configPath            string
	cache                 bool
	cacheDir              string
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract foreground, middleground and background colours from an image",
		Long: `Extract three layout colours from an image.

The image is resized to a square, smoothed, and grouped into buckets of
similar colours. The background is the largest bucket on the image border;
the foreground and middleground are interior buckets chosen for their
distance from the background.

The image may be a file, a directory (a random image inside it is used)
or an HTTP(S) URL.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Print the colours as XML (default)
  threecolours extract wallpaper.jpg

  # Print the colours as JSON
  threecolours extract -o json wallpaper.jpg

  # Show colour swatches in the terminal
  threecolours extract -o table --preview wallpaper.png

  # Use a wider frame and write a preview poster
  threecolours extract -f 15 -w poster.png wallpaper.jpg

  # Fetch a remote image once and reuse the download afterwards
  threecolours extract --cache https://example.com/wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "s", defaults.Size, "edge length the image is resized to before extraction")
	cmd.Flags().IntVarP(&opts.frame, "frame", "f", defaults.Frame, "width of the border band the background is taken from")
	cmd.Flags().Float64VarP(&opts.bucketThreshold, "bthreshold", "t", defaults.BucketThreshold, "maximum distance between colours in one bucket")
	cmd.Flags().Float64Var(&opts.foregroundThreshold, "fthreshold", defaults.ForegroundThreshold, "preferred minimum distance of the foreground from the background")
	cmd.Flags().Float64VarP(&opts.middlegroundThreshold, "mthreshold", "p", defaults.MiddlegroundThreshold, "preferred minimum distance of the middleground from the background")
	cmd.Flags().StringVarP(&opts.format, "format", "o", defaults.Format, "output format (json, xml, txt, hex, rgb, table)")
	cmd.Flags().StringVar(&opts.output, "output", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.showPreview, "preview", false, "show colour previews in terminal")
	cmd.Flags().StringVarP(&opts.show, "show", "w", "", "write a preview poster PNG to this path")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/threecolours/config.yaml)")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "keep a local copy of remote images and reuse it on later runs")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for cached remote images (default: user cache directory)")

	return cmd
}

// resolveConfig loads the config file and overlays explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *extractOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = opts.size
	}
	if flags.Changed("frame") {
		cfg.Frame = opts.frame
	}
	if flags.Changed("bthreshold") {
		cfg.BucketThreshold = opts.bucketThreshold
	}
	if flags.Changed("fthreshold") {
		cfg.ForegroundThreshold = opts.foregroundThreshold
	}
	if flags.Changed("mthreshold") {
		cfg.MiddlegroundThreshold = opts.middlegroundThreshold
	}
	if flags.Changed("format") {
		format, err := parseFormat(opts.format)
		if err != nil {
			return nil, err
		}
		cfg.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, imageArg string, opts *extractOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	quiet, _ := cmd.Flags().GetBool("quiet")

	if err := image.ValidateImagePath(imageArg); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	imagePath, err := image.ResolveImagePath(imageArg)
	if err != nil {
		return fmt.Errorf("failed to resolve image path: %w", err)
	}
	if opts.cache && image.IsURL(imagePath) {
		cached, err := imagecache.New(opts.cacheDir).Get(cmd.Context(), imagePath)
		if err != nil {
			return fmt.Errorf("failed to cache image: %w", err)
		}
		logger.Debug("using cached image", "url", imagePath, "path", cached)
		imagePath = cached
	}

	logger.Debug("loading image", "path", imagePath)
	img, err := image.NewSmartLoader().Load(cmd.Context(), imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	grid, err := image.Preprocess(img, cfg.PreprocessOptions())
	if err != nil {
		return fmt.Errorf("failed to preprocess image: %w", err)
	}

	ec := cfg.ExtractorConfig()
	ec.Logger = logger
	extractor, err := colour.NewExtractor(ec)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	roles, err := extractor.Extract(grid)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	res := colour.NewResult(roles)
	logger.Debug("extracted colours",
		"foreground", res.Foreground.Hex(),
		"middleground", res.Middleground.Hex(),
		"background", res.Background.Hex())

	// Escape codes only make sense on a colour terminal.
	colour.DisableColourOutput = opts.output != "" || !colour.SupportsANSIColours()

	output, err := formatResult(res, cfg.Format, opts.showPreview, cfg.Preview.Width)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.output != "" {
		logger.Debug("writing output", "path", opts.output)
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil { // #nosec G306 - output is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote colours to %s\n", opts.output)
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), output)
	}

	if opts.show != "" {
		if err := preview.SavePNG(opts.show, preview.Render(img, res)); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote preview to %s\n", opts.show)
		}
	}

	return nil
}
