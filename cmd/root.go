package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/heliofetch/heliofetch/internal/catalog"
	"github.com/heliofetch/heliofetch/internal/config"
	"github.com/heliofetch/heliofetch/internal/history"
	"github.com/heliofetch/heliofetch/internal/tui"
	"github.com/heliofetch/heliofetch/internal/utils"
	"github.com/heliofetch/heliofetch/pkg/heliofetch"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "heliofetch",
	Short:   "Download SDO/AIA solar imagery from the IDOC/MEDOC catalog",
	Long: `heliofetch queries the IDOC/MEDOC records catalog for SDO/AIA
observations in a time range and downloads every matching file.`,
	Version: Version,
	RunE:    runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	initializeGlobalState()

	isMaster, err := AcquireLock()
	if err != nil {
		return fmt.Errorf("error acquiring lock: %w", err)
	}
	if !isMaster {
		return fmt.Errorf("another heliofetch run is already in progress")
	}
	defer ReleaseLock()

	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	wavelength, _ := cmd.Flags().GetInt("wavelength")
	cadenceArg, _ := cmd.Flags().GetString("cadence")
	outputDir, _ := cmd.Flags().GetString("output")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	plain, _ := cmd.Flags().GetBool("plain")
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		utils.EnableConsoleDebug()
	}

	query, err := buildQuery(start, end, wavelength, cadenceArg)
	if err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		settings = config.DefaultSettings()
	}
	if settings.General.PlainOutput {
		plain = true
	}
	// A dumb terminal cannot render the live view
	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		plain = true
	}

	store, err := history.Open(filepath.Join(config.GetStateDir(), "heliofetch.db"))
	if err != nil {
		utils.Debug("History unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventCh := make(chan any, 100)
	opts := heliofetch.Options{
		Query:       query,
		OutputDir:   outputDir,
		Concurrency: concurrency,
		EventCh:     eventCh,
		History:     store,
		Settings:    settings,
	}

	if plain {
		return runHeadless(ctx, opts, eventCh)
	}
	return runTUI(ctx, opts, eventCh)
}

// buildQuery assembles and validates the catalog query from flag values.
func buildQuery(start, end string, wavelength int, cadenceArg string) (catalog.Query, error) {
	cadence, err := catalog.ParseCadence(cadenceArg)
	if err != nil {
		return catalog.Query{}, err
	}
	q := catalog.Query{
		StartDate:  start,
		EndDate:    end,
		Wavelength: wavelength,
		Cadence:    cadence,
	}
	if err := q.Validate(); err != nil {
		return catalog.Query{}, err
	}
	return q, nil
}

// runTUI drives the fetch under the live terminal view.
func runTUI(ctx context.Context, opts heliofetch.Options, eventCh chan any) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.NewModel(eventCh))

	fetchErr := make(chan error, 1)
	go func() {
		_, err := heliofetch.Fetch(ctx, opts)
		fetchErr <- err
		close(eventCh)
	}()

	finalModel, runErr := p.Run()

	// Quitting early cancels the run; pending events are drained so the
	// pool never blocks on the channel.
	cancel()
	go func() {
		for range eventCh {
		}
	}()
	err := <-fetchErr

	if runErr != nil {
		return runErr
	}
	if m, ok := finalModel.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP("start", "s", "", "Start of the observation range, e.g. 2023-02-05T00:00:00.000")
	rootCmd.Flags().StringP("end", "e", "", "End of the observation range")
	rootCmd.Flags().IntP("wavelength", "w", 335, "AIA wavelength channel in angstroms")
	rootCmd.Flags().StringP("cadence", "c", "1min", "Sampling cadence, e.g. 1min, 2h, 1day")
	rootCmd.Flags().StringP("output", "o", "", "Output directory (default from settings)")
	rootCmd.Flags().IntP("concurrency", "n", 0, "Concurrent downloads (default from settings)")
	rootCmd.Flags().Bool("plain", false, "Line-based output instead of the live view")
	rootCmd.Flags().Bool("verbose", false, "Echo debug logging to stderr")
	rootCmd.MarkFlagRequired("start")
	rootCmd.MarkFlagRequired("end")
	rootCmd.SetVersionTemplate("heliofetch version {{.Version}}\n")
}

// initializeGlobalState sets up state directories and logging.
func initializeGlobalState() {
	stateDir := config.GetStateDir()
	logsDir := config.GetLogsDir()

	os.MkdirAll(stateDir, 0755)
	os.MkdirAll(logsDir, 0755)

	// Persist defaults on first run so users have a file to edit
	if _, err := os.Stat(config.GetSettingsPath()); os.IsNotExist(err) {
		if err := config.SaveSettings(config.DefaultSettings()); err != nil {
			utils.Debug("Failed to write default settings: %v", err)
		}
	}

	utils.ConfigureDebug(logsDir)

	retention := config.DefaultSettings().General.LogRetentionCount
	if settings, err := config.LoadSettings(); err == nil {
		retention = settings.General.LogRetentionCount
	}
	utils.CleanupLogs(retention)
}
