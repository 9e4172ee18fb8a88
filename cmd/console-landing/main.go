package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yourusername/console-landing/internal/app"
	"github.com/yourusername/console-landing/internal/diagnostic"
	"github.com/yourusername/console-landing/internal/ui"
	"go.uber.org/zap"
)

var (
	// Version will be set by build flags, default to timestamp
	Version = "dev-" + time.Now().Format("20060102-150405")
	// BuildTime will be set by build flags
	BuildTime = "unknown"

	// Global flags
	configFile string
	baseURL    string
	verbose    bool
	locale     string
)

var rootCmd = &cobra.Command{
	Use:   "console-landing",
	Short: "A terminal front end for cloud console landing pages",
	Long: `console-landing lists the resources of a cloud management console
(instances, volumes, buckets and so on) in the terminal. Pages poll while
items are in a transitional state, can be filtered by free text or by
structured facets, and remember their sort order and view mode.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive console",
	Long:  `Launch the interactive TUI with one tab per configured landing page`,
	RunE:  runConsole,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a landing page to stdout",
	Long: `Print the rows of one landing page every time they load. With --once
the command exits after the first load.`,
	RunE: runWatch,
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the configured landing pages",
	RunE:  runPages,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured session can read every page",
	RunE:  runCheck,
}

func init() {
	// Add Go flags to pflag so Cobra can parse them
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	// Add subcommands
	rootCmd.AddCommand(consoleCmd, watchCmd, pagesCmd, checkCmd)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base-url", "u", "", "console base URL")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&locale, "locale", "l", "en", "interface language (en, zh)")

	// Console command flags
	consoleCmd.Flags().StringP("page", "p", "", "page to open first (default: ui.default_page)")
	consoleCmd.Flags().StringP("query", "q", "", "initial facet query, e.g. status=running")
	consoleCmd.Flags().IntP("refresh", "r", 0, "transitional poll interval in seconds")
	consoleCmd.Flags().Int("auto-refresh", 0, "refresh the page every N seconds (0 disables)")
	consoleCmd.Flags().BoolP("no-color", "", false, "disable color output")

	// Watch command flags
	watchCmd.Flags().StringP("page", "p", "", "page to print (default: ui.default_page)")
	watchCmd.Flags().StringP("query", "q", "", "initial facet query, e.g. status=running")
	watchCmd.Flags().Bool("once", false, "exit after the first load")
	watchCmd.Flags().StringP("output", "o", app.OutputTable, "output format (table, json, yaml)")
	watchCmd.Flags().IntP("refresh", "r", 0, "transitional poll interval in seconds")
}

// loadConfig loads the configuration and applies the global flags
func loadConfig(cmd *cobra.Command) (*app.Config, error) {
	config, err := app.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	// Only override locale if user explicitly specified it
	if cmd.Flags().Changed("locale") {
		config.Locale = locale
	}
	if verbose {
		config.LogLevel = "debug"
	}
	if cmd.Flags().Lookup("refresh") != nil {
		if refresh, _ := cmd.Flags().GetInt("refresh"); refresh > 0 {
			config.PollInterval = time.Duration(refresh) * time.Second
		}
	}
	return config, nil
}

func newApplication(config *app.Config) (*app.App, func(), error) {
	application, err := app.New(config, Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create application: %w", err)
	}
	shutdown := func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}
	return application, shutdown, nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if autoRefresh, _ := cmd.Flags().GetInt("auto-refresh"); autoRefresh > 0 {
		config.AutoRefresh = time.Duration(autoRefresh) * time.Second
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		config.NoColor = true
	}

	application, shutdown, err := newApplication(config)
	if err != nil {
		return err
	}
	defer shutdown()

	page, _ := cmd.Flags().GetString("page")
	if page == "" {
		page = config.DefaultPage
	}
	query, _ := cmd.Flags().GetString("query")

	opts := ui.Options{
		Pages:   config.Pages,
		Page:    page,
		Query:   query,
		Locale:  config.Locale,
		Version: Version,
	}
	if err := ui.Run(application, opts, config.NoColor); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	application, shutdown, err := newApplication(config)
	if err != nil {
		return err
	}
	defer shutdown()

	opts := app.WatchOptions{}
	opts.Page, _ = cmd.Flags().GetString("page")
	opts.Query, _ = cmd.Flags().GetString("query")
	opts.Once, _ = cmd.Flags().GetBool("once")
	opts.Output, _ = cmd.Flags().GetString("output")

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Watch(ctx, opts, os.Stdout); err != nil {
		return err
	}
	if ctx.Err() != nil {
		zap.L().Info("Received signal, shutting down...")
	}
	return nil
}

func runPages(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tENDPOINT\tSORT\tDEFAULT")
	for _, p := range config.Pages {
		def := ""
		if p.Name == config.DefaultPage {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Title, p.Endpoint, p.Sort, def)
	}
	return w.Flush()
}

func runCheck(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	application, shutdown, err := newApplication(config)
	if err != nil {
		return err
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	type result struct {
		page   app.PageConfig
		status *diagnostic.ConsoleAccessStatus
	}
	var readable, failed []result
	for _, p := range config.Pages {
		status, err := diagnostic.CheckConsoleAccess(ctx, application.Client(), p.Name, p.Endpoint, p.StorageService)
		if err != nil {
			return err
		}
		if status.Allowed {
			readable = append(readable, result{p, status})
			continue
		}
		if strings.HasPrefix(config.Locale, "zh") {
			status.Hint = diagnostic.GetRecommendedActionChinese(status.Err, p.StorageService, p.Name)
		}
		failed = append(failed, result{p, status})
	}

	// most urgent first
	sort.SliceStable(failed, func(i, j int) bool {
		return diagnostic.GetFailurePriority(failed[i].status.Kind) > diagnostic.GetFailurePriority(failed[j].status.Kind)
	})

	out := cmd.OutOrStdout()
	for _, r := range failed {
		fmt.Fprintf(out, "❌ %-16s %-16s %s\n", r.page.Name, r.status.Kind, r.status.Message())
	}
	for _, r := range readable {
		fmt.Fprintf(out, "✅ %-16s %d items in %v\n", r.page.Name, r.status.Items, r.status.Latency.Round(time.Millisecond))
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d pages are not readable", len(failed), len(config.Pages))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
