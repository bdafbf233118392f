package main

import (
	"bundlesize/analyzer"
	"bundlesize/artifacts"
	"bundlesize/build"
	"bundlesize/dist"
	"bundlesize/models"
	"bundlesize/output"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
)

var (
	rootCmd = &cobra.Command{
		Use:   "bundlesize",
		Short: "A size analyzer for build output",
	}
	rootCtx     = models.RootCtx{}
	distCtx     = dist.Collector{}
	suggestions = true
)

func resolvePath(path string) string {
	resolved, err := homedir.Expand(path)
	if err != nil {
		log.Fatalf("Failed to resolve path with home dir: %s: %s", path, err)
	}
	absolute, err := filepath.Abs(resolved)
	if err != nil {
		log.Fatalf("Failed to resolve absolute path: %s: %s", absolute, err)
	}
	return absolute
}

func processRootConfig(cmd *cobra.Command) models.RootCtx {
	if cmd.Flags().Changed("large-threshold") {
		b, err := humanize.ParseBytes(rootCtx.LargeThreshold)
		if err != nil {
			log.Fatalf("Unable to parse threshold %s as a size", rootCtx.LargeThreshold)
		}
		rootCtx.LargeThresholdBytes = b
		rootCtx.LargeThresholdOverridden = true
	}

	switch strings.ToUpper(rootCtx.LogLevel) {
	case "TRACE":
		log.SetLevel(log.TraceLevel)
		rootCtx.LogLevel = "TRACE"
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
		rootCtx.LogLevel = "DEBUG"
	case "INFO":
		log.SetLevel(log.InfoLevel)
		rootCtx.LogLevel = "INFO"
	default:
		log.Fatalf("Unknown log level: %s", rootCtx.LogLevel)
	}

	if rootCtx.OptionsFile != "" {
		options, err := readOptionsFile(resolvePath(rootCtx.OptionsFile))
		if err != nil {
			log.Fatalf("Unable to read options file: %s", err)
		}
		rootCtx.Options = options
	}
	return rootCtx
}

// readOptionsFile loads an options file, which unlike the --options payload
// may carry comments and trailing commas.
func readOptionsFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(jsonc.ToJSON(data)), nil
}

// analyzerConfig resolves the analyzer configuration from the options payload
// and any flags that override it.
func analyzerConfig(ctx models.RootCtx) analyzer.Config {
	cfg, err := analyzer.ParseConfig(ctx.Options)
	if err != nil {
		log.Warnf("Ignoring analyzer options: %s", err)
	}
	if ctx.LargeThresholdOverridden {
		cfg.WarningThreshold = ctx.LargeThresholdBytes
	}
	if !suggestions {
		cfg.ShowSuggestions = false
	}
	log.Debugf("Large file threshold is %s", humanize.IBytes(cfg.WarningThreshold))
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootCtx.LogLevel,
		"logging",
		"",
		"INFO",
		"The level of logging to use")
	rootCmd.PersistentFlags().StringVarP(&rootCtx.LargeThreshold,
		"large-threshold",
		"",
		"1MiB",
		"Files larger than this are flagged as large")
	rootCmd.PersistentFlags().StringVarP(&rootCtx.Options,
		"options",
		"",
		"",
		"Analyzer options as a JSON object")
	rootCmd.PersistentFlags().StringVarP(&rootCtx.OptionsFile,
		"options-file",
		"",
		"",
		"Path to a JSON file with analyzer options (comments allowed)")
	rootCmd.PersistentFlags().StringVarP(&rootCtx.Format,
		"format",
		"o",
		"text",
		"Output format (text, json, yaml)")

	var distCmd = cobra.Command{
		Use:   "dist [options] path/to/dist",
		Short: "Analyzes the files of a finished build",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 || args[0] == "help" {
				cmd.Help()
				return
			}
			ctx := processRootConfig(cmd)
			format, err := output.ParseFormat(ctx.Format)
			if err != nil {
				log.Fatal(err)
			}
			distCtx.Dir = resolvePath(args[0])
			runDist(cmd.Context(), ctx, format, color.Output)
		},
	}
	distCmd.PersistentFlags().IntVarP(&distCtx.Workers,
		"workers",
		"",
		dist.DefaultWorkers,
		"Number of files read in parallel")
	distCmd.PersistentFlags().StringSliceVarP(&distCtx.Ignore,
		"ignore",
		"",
		nil,
		"Glob patterns of files to leave out of the analysis")
	distCmd.PersistentFlags().BoolVarP(&suggestions,
		"suggestions",
		"",
		true,
		"Print optimization suggestions for large files")
	rootCmd.AddCommand(&distCmd)
}

func runDist(ctx context.Context, root models.RootCtx, format output.Format, w io.Writer) {
	if ctx == nil {
		ctx = context.Background()
	}

	store := artifacts.NewStore()
	log.Infof("Collecting artifacts from %s", distCtx.Dir)
	n, err := distCtx.Collect(ctx, store)
	if err != nil {
		log.Fatalf("Failed to collect artifacts: %s", err)
	}
	log.Debugf("Collected %d artifacts", n)

	// The analyzer prints plain text on its own; the CLI renders instead so
	// it can highlight large files or emit structured output.
	a := analyzer.NewWithConfig(analyzerConfig(root))
	a.SetOutput(io.Discard)

	host := build.NewHost()
	if err := host.Register(a); err != nil {
		log.Fatal(err)
	}
	reports, err := host.Complete(store)
	if err != nil {
		log.Fatalf("Build completion failed: %s", err)
	}

	for _, report := range reports {
		if err := output.Write(w, format, report); err != nil {
			log.Fatalf("Failed to write report: %s", err)
		}
	}
}

type LogFormatter struct {
}

func (*LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level >= log.DebugLevel {
		return []byte(color.New(color.FgWhite).Sprintf("%s\n", entry.Message)), nil
	} else if entry.Level <= log.WarnLevel {
		return []byte(color.New(color.FgYellow).Sprintf("%s\n", entry.Message)), nil
	} else {
		return []byte(color.New(color.Reset).Sprintf("%s\n", entry.Message)), nil
	}
}

func main() {
	log.SetFormatter(&LogFormatter{})
	log.SetOutput(os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
