package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drawbridge/internal/bus"
	"drawbridge/internal/channel"
	"drawbridge/internal/command"
	"drawbridge/internal/config"
	"drawbridge/internal/fetch"
	"drawbridge/internal/handler"
	"drawbridge/internal/history"
	"drawbridge/internal/metrics"
	"drawbridge/internal/scene"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "drawbridge",
		Short: "drawbridge: remote command bridge for design documents",
		Long:  "drawbridge exposes a scene-graph document over a local WebSocket command channel.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.drawbridge/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(commandsCmd())
	root.AddCommand(configCmd())
	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadOrDefault() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		return config.Defaults()
	}
	return cfg
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the config directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var docPath string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the command channel",
		Long:  "Opens a document and serves the command surface over WebSocket (and optionally stdio). Press Ctrl+C to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(docPath, readOnly)
		},
	}
	cmd.Flags().StringVar(&docPath, "document", "", "document snapshot to load at startup")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "reject mutating commands")
	return cmd
}

func runServe(docPath string, readOnly bool) error {
	cfg := loadOrDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc := scene.New(cfg.Document.Name, logger)
	doc.SetEditable(cfg.Document.Editable && !readOnly)

	if docPath == "" {
		docPath = cfg.Document.SnapshotPath
	}
	if docPath != "" {
		data, err := os.ReadFile(docPath)
		switch {
		case err == nil:
			if err := doc.Restore(data); err != nil {
				return fmt.Errorf("restore document %s: %w", docPath, err)
			}
			logger.Info("document loaded", "path", docPath, "name", doc.Name())
		case os.IsNotExist(err):
			logger.Info("snapshot absent, starting empty", "path", docPath)
		default:
			return fmt.Errorf("read document %s: %w", docPath, err)
		}
	}

	var audit command.Auditor
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath, logger)
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		defer store.Close()
		if pruned, err := store.Prune(ctx, cfg.History.RetentionDays); err != nil {
			logger.Warn("history prune failed", "err", err)
		} else if pruned > 0 {
			logger.Info("history pruned", "rows", pruned)
		}
		audit = store
	}

	reg := command.NewRegistry(logger)
	handler.RegisterAll(reg, handler.Deps{
		Fetch:  fetch.New(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second),
		Logger: logger,
	})
	logger.Info("command surface ready", "commands", len(reg.Names()), "editable", doc.Editable())

	disp := command.NewDispatcher(reg, doc, audit, logger)
	commandBus := bus.New(100, logger)
	defer commandBus.Close()

	loop := command.NewLoop(commandBus, disp, logger)
	go loop.Run(ctx)

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc(cfg.Metrics.Endpoint, metrics.Collector.Handler())
		srv := &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("metrics endpoint listening", "addr", srv.Addr, "path", cfg.Metrics.Endpoint)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "err", err)
			}
		}()
		defer srv.Close()
	}

	if cfg.Channels.Stdio {
		s := channel.NewStdio(channel.StdioConfig{Logger: logger})
		go func() {
			if err := s.Start(ctx, commandBus); err != nil {
				logger.Error("stdio channel error", "err", err)
			}
		}()
	}

	if !cfg.Channels.WebSocket {
		logger.Info("websocket channel disabled, serving stdio only")
		<-ctx.Done()
		return nil
	}

	ws := channel.NewWebSocket(channel.WSConfig{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		Path:   cfg.Server.Path,
		Logger: logger,
	})
	logger.Info("bridge started", "version", version)
	return ws.Start(ctx, commandBus)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				logger.Info("config", "path", cfgPath, "loaded", false)
				cfg = config.Defaults()
			} else {
				logger.Info("config", "path", cfgPath, "loaded", true)
			}
			logger.Info("server", "host", cfg.Server.Host, "port", cfg.Server.Port, "path", cfg.Server.Path)
			logger.Info("document", "name", cfg.Document.Name, "editable", cfg.Document.Editable)
			logger.Info("history", "enabled", cfg.History.Enabled, "db", cfg.History.DBPath)
			return nil
		},
	}
}

func commandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the registered command surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := command.NewRegistry(logger)
			handler.RegisterAll(reg, handler.Deps{Fetch: fetch.New(0), Logger: logger})
			for _, c := range reg.Describe() {
				marker := " "
				if c.RequiresEditable {
					marker = "*"
				}
				fmt.Printf("%s %-28s %s\n", marker, c.Name, c.Doc)
			}
			fmt.Println("\n* requires an editable document")
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent commands from the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadOrDefault()
			store, err := history.NewStore(cfg.History.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(context.Background(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				status := "ok"
				if !e.OK {
					status = e.ErrorKind
				}
				fmt.Printf("%s  %-28s %-18s %dms\n", e.CreatedAt.Format(time.RFC3339), e.Command, status, e.DurationMS)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. server.port)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(val, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. server.port 4000)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "value", args[1], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			data, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}
