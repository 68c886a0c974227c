package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/slideforge/slideforge"
	"github.com/slideforge/slideforge/api"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failureStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

type cliOptions struct {
	inputs      []string
	output      string
	sizeName    string
	presetsFile string
	modeName    string
	backend     string
	dpi         int
	recursive   bool
	force       bool
	quiet       bool
	logFlags    logger.Flags
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{logFlags: logger.Flags{Level: "info", LogToStderr: true}}

	rootCmd := &cobra.Command{
		Use:   "slideforge",
		Short: "Build PowerPoint decks from PDFs or image folders",
		Long: `Slideforge converts PDFs and folders of images into .pptx slide decks,
one slide per page or image. Images are placed deterministically: "fit"
scales the whole image into the slide (background may show), "fill" covers
the slide completely and crops symmetric margins. Scaling is always
proportional; nothing is ever stretched.`,
		Example: `  slideforge -i report.pdf --dpi 300
  slideforge -i ./photos --size 4:3 --mode fill -o vacation
  slideforge -i a.pdf -i b.pdf -i ./scans --recursive --force`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Configure(opts.logFlags)

			if opts.output != "" && len(opts.inputs) > 1 {
				return fmt.Errorf("--output can only be used with a single input")
			}

			converterOpts, err := opts.resolve()
			if err != nil {
				return err
			}

			// Interactive fallback when no inputs are given.
			if len(opts.inputs) == 0 {
				return runInteractive(cmd, opts, converterOpts)
			}

			return runBatch(cmd, opts, converterOpts)
		},
	}

	opts.bind(rootCmd.Flags())

	rootCmd.AddCommand(newVersionCommand(), newSizesCommand())
	return rootCmd
}

func (o *cliOptions) bind(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&o.inputs, "input", "i", nil, "Path(s) to PDFs, images or folders to process")
	flags.StringVarP(&o.output, "output", "o", "", "Output filename (with or without .pptx); single input only")
	flags.StringVar(&o.sizeName, "size", "", "Slide size preset: 16:9, 4:3, letter, a4, legal, tabloid (default: inferred from input)")
	flags.StringVar(&o.presetsFile, "presets", "", "YAML file with additional slide size presets")
	flags.StringVar(&o.modeName, "mode", "fit", "Placement mode: fit (no crop) or fill (no whitespace)")
	flags.StringVar(&o.backend, "backend", "", "Preferred PDF rasterization backend (mupdf, pdftoppm)")
	flags.IntVar(&o.dpi, "dpi", slideforge.DefaultDPI, "DPI for PDF rasterization, clamped to [72, 1200]")
	flags.BoolVarP(&o.recursive, "recursive", "r", false, "Recurse into subfolders when processing folders")
	flags.BoolVar(&o.force, "force", false, "Overwrite existing .pptx files without confirmation")
	flags.BoolVar(&o.quiet, "quiet", false, "Suppress prompts and non-critical output")
	flags.CountVarP(&o.logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&o.logFlags.Level, "log-level", "info", "Set the default log level")
}

// resolve turns CLI flags into conversion options.
func (o cliOptions) resolve() (slideforge.Options, error) {
	opts := slideforge.Options{
		Output:    o.output,
		Recursive: o.recursive,
		Force:     o.force || o.quiet,
		DPI:       clampDPI(o.dpi),
	}

	mode, err := api.ParseMode(o.modeName)
	if err != nil {
		return slideforge.Options{}, err
	}
	opts.Mode = mode

	presets, err := loadPresets(o.presetsFile)
	if err != nil {
		return slideforge.Options{}, err
	}

	if o.sizeName != "" {
		size, ok := findPreset(presets, o.sizeName)
		if !ok {
			return slideforge.Options{}, fmt.Errorf("unknown slide size %q (see 'slideforge sizes')", o.sizeName)
		}
		opts.Size = size
	}
	return opts, nil
}

func clampDPI(dpi int) int {
	switch {
	case dpi < slideforge.MinDPI:
		logger.Warnf("dpi %d below minimum, using %d", dpi, slideforge.MinDPI)
		return slideforge.MinDPI
	case dpi > slideforge.MaxDPI:
		logger.Warnf("dpi %d above maximum, using %d", dpi, slideforge.MaxDPI)
		return slideforge.MaxDPI
	}
	return dpi
}

func runBatch(cmd *cobra.Command, cli cliOptions, opts slideforge.Options) error {
	converter := newConverter(cli)

	summary := converter.ConvertBatch(cmd.Context(), cli.inputs, opts)
	printSummary(cmd, cli, summary)
	return summary.Err()
}

func newConverter(cli cliOptions) *slideforge.Converter {
	converter := slideforge.New()
	if cli.backend != "" {
		if err := converter.Rasterizer().SetPreferred(cli.backend); err != nil {
			logger.Warnf("%v; using auto-detection (available: %v)",
				err, converter.Rasterizer().Available())
		}
	}
	return converter
}

func printSummary(cmd *cobra.Command, cli cliOptions, summary slideforge.Summary) {
	for _, res := range summary.Results {
		if res.Err != nil {
			cmd.PrintErrln(failureStyle.Render("✗ " + res.Describe()))
		} else if !cli.quiet {
			cmd.Println(successStyle.Render("✓ " + res.Describe()))
		}
	}
	if !cli.quiet && len(summary.Results) > 1 {
		cmd.Println(mutedStyle.Render(
			fmt.Sprintf("%d succeeded, %d failed", summary.Succeeded, summary.Failed)))
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("slideforge %s (commit %s, built %s, %s)\n",
				version, commit, date, runtime.Version())
		},
	}
}

func newSizesCommand() *cobra.Command {
	var presetsFile string

	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "List available slide size presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := loadPresets(presetsFile)
			if err != nil {
				return err
			}
			for _, p := range presets {
				cmd.Println("  " + p.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&presetsFile, "presets", "", "YAML file with additional slide size presets")
	return cmd
}
