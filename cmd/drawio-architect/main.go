// Command drawio-architect keeps a flat JSON library of draw.io shape
// styles, harvests new styles from sample diagrams, and drives a
// Gemini agent that reuses them when generating diagrams.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	drawioagent "github.com/flexigpt/drawioagent-go"
	"github.com/flexigpt/drawioagent-go/architect"
	"github.com/flexigpt/drawioagent-go/internal/config"
	"github.com/flexigpt/drawioagent-go/internal/samplewatch"
	"github.com/flexigpt/drawioagent-go/spec"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	libraryPath string
	outputDir   string

	// Per-command flags
	extractPattern string
	saveName       string
)

var rootCmd = &cobra.Command{
	Use:   "drawio-architect",
	Short: "Build draw.io diagrams from a reusable style library",
	Long: `drawio-architect maintains a JSON library of draw.io shape styles.

Styles are harvested from sample diagrams (extract, watch), resolved by
name (search, list), and fed to a Gemini agent that reuses them when it
generates new diagrams (ask). Generated diagrams land in the output
directory as .drawio files (save).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; environment wins either way.
		_ = godotenv.Load()

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask the architect agent to design a diagram",
	Long: `Sends a prompt to the Gemini-backed architect agent.

The agent consults the style library, extracts styles from any sample
diagrams you point it at, and stores the finished diagram in the output
directory. Requires GEMINI_API_KEY (or GOOGLE_API_KEY, or api_key in
the config file).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Resolve a style query against the library",
	Long: `Resolves a query the way the agent tool does: an exact key match
returns the stored record, partial matches return candidate keys, and
anything else falls back to the basic rectangle style.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var extractCmd = &cobra.Command{
	Use:   "extract [diagram.drawio]",
	Short: "Harvest shape styles from a diagram into the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every style in the library",
	RunE:  runList,
}

var saveCmd = &cobra.Command{
	Use:   "save [xml-file]",
	Short: "Store diagram XML in the output directory",
	Long: `Reads draw.io XML from the given file, or from stdin when the
argument is "-", and writes it into the output directory with a
.drawio extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Watch sample directories and auto-extract new diagrams",
	Long: `Watches the given directories (default: watch_dirs from the config)
and runs a full style extraction whenever a .drawio file is created or
modified, so dropping a sample in teaches the library automatically.`,
	RunE: runWatch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "Style library file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "Directory for generated diagrams (overrides config)")

	extractCmd.Flags().StringVar(&extractPattern, "pattern", spec.PatternAll, "Label substring of the shape to extract")
	saveCmd.Flags().StringVar(&saveName, "name", "", "Output file name (default: generated)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if libraryPath != "" {
		cfg.LibraryPath = libraryPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRuntime(cfg *config.Config) (*drawioagent.Runtime, error) {
	return drawioagent.New(
		drawioagent.WithLibraryPath(cfg.LibraryPath),
		drawioagent.WithOutputDir(cfg.OutputDir),
		drawioagent.WithLogger(slog.Default()),
	)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return errors.New("no Gemini API key: set GEMINI_API_KEY or api_key in the config file")
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}

	model, err := architect.NewGeminiModel(ctx, architect.GeminiConfig{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		SystemInstruction: systemInstruction(ctx, rt),
	})
	if err != nil {
		return err
	}
	defer model.Close()

	agent, err := architect.New(model, rt,
		architect.WithLogger(slog.Default()),
		architect.WithMaxToolTurns(cfg.MaxToolTurns),
	)
	if err != nil {
		return err
	}

	answer, err := agent.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

// systemInstruction extends the base agent instruction with the current
// library contents so known styles are reusable without a tool round.
func systemInstruction(ctx context.Context, rt *drawioagent.Runtime) string {
	lib, err := rt.ListLibrary(ctx, spec.ListLibraryArgs{})
	if err != nil || lib.Count == 0 {
		return architect.Instruction
	}
	xmlLib, err := rt.LibraryPromptXML(ctx)
	if err != nil {
		slog.Warn("cannot render library for the system prompt", "error", err)
		return architect.Instruction
	}
	return architect.Instruction + "\n\nCurrent style library:\n" + xmlLib
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFromFlags()
	if err != nil {
		return err
	}

	res, err := rt.SearchTemplates(cmd.Context(), spec.SearchTemplatesArgs{
		Query: strings.Join(args, " "),
	})
	if err != nil {
		return err
	}

	switch res.Match {
	case spec.MatchExact:
		fmt.Printf("exact match %q\n", res.Key)
		printRecord(*res.Template)
	case spec.MatchFuzzy:
		fmt.Println("partial matches:")
		for _, entry := range res.Candidates {
			fmt.Printf("  %-24s %dx%d\n", entry.Key, entry.Record.Width, entry.Record.Height)
		}
		fmt.Println(res.Suggestion)
	default:
		fmt.Println(res.Message)
		printRecord(*res.Template)
	}
	return nil
}

func printRecord(rec spec.StyleRecord) {
	fmt.Printf("  style:  %s\n", rec.Style)
	fmt.Printf("  size:   %dx%d\n", rec.Width, rec.Height)
}

func runExtract(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFromFlags()
	if err != nil {
		return err
	}

	res, err := rt.ExtractPattern(cmd.Context(), spec.ExtractPatternArgs{
		Path:    args[0],
		Pattern: extractPattern,
	})
	if err != nil {
		return err
	}
	if res.Note != "" {
		fmt.Println(res.Note)
		return nil
	}
	fmt.Printf("saved %d style(s): %s\n", res.Saved, strings.Join(res.Keys, ", "))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFromFlags()
	if err != nil {
		return err
	}

	res, err := rt.ListLibrary(cmd.Context(), spec.ListLibraryArgs{})
	if err != nil {
		return err
	}
	if res.Note != "" {
		fmt.Println(res.Note)
		return nil
	}
	fmt.Printf("%d style(s):\n", res.Count)
	for _, entry := range res.Entries {
		fmt.Printf("  %-24s %dx%d  %s\n", entry.Key, entry.Record.Width, entry.Record.Height, entry.Record.Style)
	}
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFromFlags()
	if err != nil {
		return err
	}

	var data []byte
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read diagram: %w", err)
	}

	res, err := rt.SaveDiagram(cmd.Context(), spec.SaveDiagramArgs{
		XML:      string(data),
		Filename: saveName,
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", res.Path)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = cfg.WatchDirs
	}

	w, err := samplewatch.New(rt, dirs, samplewatch.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Scan(ctx); err != nil {
		slog.Warn("initial sample scan failed", "error", err)
	}

	fmt.Println("Watching for sample diagrams. Press Ctrl+C to stop.")
	<-ctx.Done()

	stats := w.Stats()
	fmt.Printf("\nDone: %d extraction(s), %d style(s) saved, %d error(s)\n",
		stats.Extractions, stats.StylesSaved, stats.Errors)
	return nil
}

func runtimeFromFlags() (*drawioagent.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newRuntime(cfg)
}
