// Package cli implements the hub command-line tool. Commands run the
// aggregation and report services in-process against the upstreams named in
// the environment.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"inventory-hub/internal/api"
	"inventory-hub/internal/app"
	"inventory-hub/internal/config"
	"inventory-hub/internal/domain"
	"inventory-hub/internal/middleware"
)

var (
	version = "dev"
	commit  = "none"
)

// backend is what the commands run against.
type backend struct {
	views   api.Views
	reports api.Reports
	engine  api.EngineInfo
	close   func() error
}

// openBackend builds the services from cfg.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	a, err := app.New(ctx, app.Deps{Cfg: cfg, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &backend{
		views:   a.Services.Aggregator,
		reports: a.Services.Reports,
		engine:  a.Services.Runner,
		close:   a.Close,
	}, nil
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == formatJSON {
			_ = printJSON(os.Stdout, map[string]string{
				"error": err.Error(),
				"kind":  domain.ErrorKind(err),
			})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// session holds what PersistentPreRunE resolved for one invocation.
type session struct {
	backend *backend
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		output  string
		envFile string
		profile string
		verbose bool
		sess    session
	)

	rootCmd := &cobra.Command{
		Use:           "hub",
		Short:         "Inventory hub CLI",
		Long:          "Consolidated views over the products, orders and suppliers services, plus analytic reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Config file is optional.
			userCfg, err := LoadUserConfig()
			if err != nil {
				userCfg = &UserConfig{Profiles: map[string]Profile{}}
			}
			p, err := userCfg.ActiveProfile(profile)
			if err != nil {
				return err
			}

			// Precedence: flag > env > profile > default.
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("HUB_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			if !cmd.Flags().Changed("env-file") && p.EnvFile != "" {
				envFile = p.EnvFile
			}
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			_ = cmd.Root().PersistentFlags().Set("output", output)

			if !needsBackend(cmd) {
				return nil
			}
			if envFile != "" {
				if err := config.LoadDotEnv(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			sess.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			for _, w := range cfg.Warnings {
				sess.logger.Warn("config", "warning", w)
			}

			ctx := middleware.WithRequestID(cmd.Context(), "cli-"+uuid.NewString())
			cmd.SetContext(ctx)
			sess.backend, err = openBackend(ctx, cfg, sess.logger)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if sess.backend == nil || sess.backend.close == nil {
				return nil
			}
			return sess.backend.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", formatTable, "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level to stderr")

	be := func() *backend { return sess.backend }

	rootCmd.AddCommand(newStatusCmd(be))
	rootCmd.AddCommand(newOrderCmd(be))
	rootCmd.AddCommand(newOrdersCmd(be))
	rootCmd.AddCommand(newProductCmd(be))
	rootCmd.AddCommand(newProductsCmd(be))
	rootCmd.AddCommand(newSuppliersCmd(be))
	rootCmd.AddCommand(newDashboardCmd(be))
	rootCmd.AddCommand(newReportCmd(be))
	rootCmd.AddCommand(newQueryCmd(be))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// offline marks commands that run without building the services.
const offline = "offline"

func needsBackend(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[offline]; ok {
			return false
		}
	}
	return true
}

var errNoBackend = errors.New("services not initialised")

func requireBackend(get func() *backend) (*backend, error) {
	b := get()
	if b == nil {
		return nil, errNoBackend
	}
	return b, nil
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion [bash|zsh|fish|powershell]",
		Short:       "Generate shell completion scripts",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}

// writeTo is a helper for table renderers that cannot fail.
func writeTo(fn func(w io.Writer)) func(io.Writer) error {
	return func(w io.Writer) error {
		fn(w)
		return nil
	}
}
