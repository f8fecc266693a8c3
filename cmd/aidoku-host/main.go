package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"github.com/aidoku-host/aidoku-host/internal/config"
	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/hostimport"
	"github.com/aidoku-host/aidoku-host/internal/hostimport/stdimport"
	"github.com/aidoku-host/aidoku-host/internal/hostlog"
	"github.com/aidoku-host/aidoku-host/internal/session"
	"github.com/aidoku-host/aidoku-host/internal/store"
	"github.com/aidoku-host/aidoku-host/internal/value"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aidoku-host",
		Short: "Host runtime for aidoku-style WASM manga-source plugins",
	}

	f := rootCmd.PersistentFlags()
	f.String("plugin", "", "path to a .wasm plugin module")
	f.String("state-dir", "./state", "directory for the persistent audit database")
	f.Int("timeout", 30, "per-export-call wall clock budget in seconds")
	f.Bool("verbose", false, "enable per-import trace logging")
	f.Int("page", 1, "page number for manga-list/manga-listing")

	bindFlag := func(viperKey, flagName string) {
		_ = viper.BindPFlag(viperKey, f.Lookup(flagName))
	}
	bindFlag("plugin", "plugin")
	bindFlag("state_dir", "state-dir")
	bindFlag("timeout", "timeout")
	bindFlag("verbose", "verbose")
	bindFlag("page", "page")

	viper.SetEnvPrefix("AIDOKU_HOST")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.AddCommand(runCmd(), inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Invoke one session-driver operation against the configured plugin",
	}
	cmd.AddCommand(
		runSubcommand("manga-list", 0, func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool) {
			return d.GetMangaList(ctx, nil, cfg.Page)
		}),
		runSubcommand("manga-listing", 1, func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool) {
			return d.GetMangaListing(ctx, value.Listing{Name: args[0]}, cfg.Page)
		}),
		runSubcommand("manga-details", 1, func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool) {
			return d.GetMangaDetails(ctx, value.Manga{ID: args[0]})
		}),
		runSubcommand("chapter-list", 1, func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool) {
			chapters, ok := d.GetChapterList(ctx, value.Manga{ID: args[0]})
			return chapters, ok
		}),
		runSubcommand("page-list", 2, func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool) {
			pages, ok := d.GetPageList(ctx, value.Chapter{ID: args[1]})
			return pages, ok
		}),
		runSubcommand("notify", 1, func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool) {
			d.HandleNotification(ctx, args[0])
			return nil, true
		}),
	)
	return cmd
}

// runSubcommand builds one `run <name> [args...]` cobra command: open the
// configured plugin in a fresh engine/session, invoke fn, JSON-encode the
// result to stdout, record the call to the audit store, and close the
// session. Mirrors the teacher's one-RunE-per-purpose cmd/claudeops style.
func runSubcommand(name string, nargs int, fn func(ctx context.Context, d *session.Driver, cfg config.Config, args []string) (any, bool)) *cobra.Command {
	return &cobra.Command{
		Use:  withArgsUsage(name, nargs),
		Args: cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), name, func(ctx context.Context, d *session.Driver, cfg config.Config, st *store.Store, runID string) error {
				started := time.Now()
				result, ok := fn(ctx, d, cfg, args)
				recordExportCall(st, runID, name, cfg.Page, time.Since(started), ok)
				if err := session.MustExport(ok, name); err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
}

func withArgsUsage(name string, nargs int) string {
	usage := name
	for i := 0; i < nargs; i++ {
		usage += fmt.Sprintf(" <arg%d>", i+1)
	}
	return usage
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the guest's declared exports and the host's import surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.Plugin == "" {
				return fmt.Errorf("--plugin is required")
			}

			ctx := cmd.Context()
			eng := engine.New(ctx)
			defer eng.Close(ctx) //nolint:errcheck

			wasmBytes, err := os.ReadFile(cfg.Plugin)
			if err != nil {
				return fmt.Errorf("read plugin: %w", err)
			}
			mod, err := eng.Compile(ctx, wasmBytes)
			if err != nil {
				return fmt.Errorf("compile plugin: %w", err)
			}

			fmt.Println("guest exports:")
			for _, name := range mod.ExportNames() {
				fmt.Printf("  %s\n", name)
			}

			fmt.Println("host import surface:")
			log := hostlog.New()
			st := hostimport.NewState(log)
			for _, ns := range hostimport.Namespaces(st) {
				for _, fn := range ns.Functions {
					fmt.Printf("  %s.%s\n", ns.Name, fn.Name)
				}
			}
			return nil
		},
	}
}

// withSession wires engine + hostimport + session.Driver + store.Store
// around body, guaranteeing every resource is released and the session
// run is recorded regardless of how body exits.
func withSession(parent context.Context, exportName string, body func(ctx context.Context, d *session.Driver, cfg config.Config, st *store.Store, runID string) error) error {
	cfg := config.Load()
	if cfg.Plugin == "" {
		return fmt.Errorf("--plugin is required")
	}

	log := hostlog.New()
	log.SetVerbose(cfg.Verbose)

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	auditStore, err := store.Open(filepath.Join(cfg.StateDir, "aidoku-host.db"))
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer auditStore.Close() //nolint:errcheck

	runID := uuid.NewString()
	startedAt := stdimport.FormatTimestamp(time.Now())
	if err := auditStore.InsertSessionRun(&store.SessionRun{ID: runID, PluginPath: cfg.Plugin, StartedAt: startedAt}); err != nil {
		return fmt.Errorf("record session run: %w", err)
	}

	ctx, cancel := context.WithTimeout(parent, time.Duration(cfg.Timeout)*time.Second)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	defer signal.Stop(sigCh)

	outcome := "ok"
	defer func() {
		_ = auditStore.FinishSessionRun(runID, stdimport.FormatTimestamp(time.Now()), outcome)
	}()

	eng := engine.New(ctx)
	defer eng.Close(ctx) //nolint:errcheck

	wasmBytes, err := os.ReadFile(cfg.Plugin)
	if err != nil {
		outcome = "load_error"
		return fmt.Errorf("read plugin: %w", err)
	}
	mod, err := eng.Compile(ctx, wasmBytes)
	if err != nil {
		outcome = "load_error"
		return fmt.Errorf("compile plugin: %w", err)
	}

	st := hostimport.NewState(log)
	instance, err := eng.Instantiate(ctx, mod, hostimport.Namespaces(st))
	if err != nil {
		outcome = "load_error"
		return fmt.Errorf("instantiate plugin: %w", err)
	}
	defer instance.Close(ctx) //nolint:errcheck

	driver := session.New(instance, st.Values, log)
	driver.Initialize(ctx)

	if err := body(ctx, driver, cfg, auditStore, runID); err != nil {
		outcome = "error"
		return err
	}
	return nil
}

// recordExportCall writes one export_calls row. The driver does not report
// per-call descriptor counts, so descriptors_allocated and descriptors_freed
// are always written as 0.
func recordExportCall(st *store.Store, runID, exportName string, page int32, dur time.Duration, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	_, _ = st.InsertExportCall(&store.ExportCall{
		SessionRunID:         runID,
		ExportName:           exportName,
		Page:                 &page,
		DescriptorsAllocated: 0,
		DescriptorsFreed:     0,
		Outcome:              outcome,
		DurationMS:           dur.Milliseconds(),
	})
}

func printJSON(v any) error {
	val, ok := v.(value.Value)
	if ok {
		raw, err := val.MarshalJSON()
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		// gjson's @pretty modifier reformats the already-built wire JSON
		// for terminal display without re-decoding it into a Go value.
		fmt.Println(gjson.Get(string(raw), "@pretty").String())
		return nil
	}
	switch typed := v.(type) {
	case *value.MangaResult:
		if typed == nil {
			fmt.Println("null")
			return nil
		}
		return printJSON(value.NewMangaResult(*typed))
	case *value.Manga:
		if typed == nil {
			fmt.Println("null")
			return nil
		}
		return printJSON(value.NewManga(*typed))
	case []value.Chapter:
		items := make([]value.Value, len(typed))
		for i, c := range typed {
			items[i] = value.NewChapter(c)
		}
		return printJSON(value.NewArray(items))
	case []value.Page:
		items := make([]value.Value, len(typed))
		for i, p := range typed {
			items[i] = value.NewPage(p)
		}
		return printJSON(value.NewArray(items))
	case nil:
		fmt.Println("null")
		return nil
	default:
		return fmt.Errorf("unsupported result type %T", v)
	}
}
