package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront/internal/app"
	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/notify"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type runtime struct {
	configPath string
	apiURL     string
	storeKind  string
	logMode    string
	asJSON     bool

	app *app.App
}

// NewRootCommand builds the storefront command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog, manage the cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
				return nil
			}
			if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
				return nil
			}
			return rt.open(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&rt.configPath, "config", "", "config file (default $STOREFRONT_CONFIG or ./config/storefront.yaml)")
	f.StringVar(&rt.apiURL, "api-url", "", "storefront API base URL")
	f.StringVar(&rt.storeKind, "store", "", "local store driver: sqlite, postgres, redis, memory")
	f.StringVar(&rt.logMode, "log-mode", "", "development, production or quiet")
	f.BoolVar(&rt.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newProductsCommand(rt),
		newCartCommand(rt),
		newOrderCommand(rt),
		newAccountCommand(rt),
		newServeCommand(rt),
		newVersionCommand(),
	)
	return root
}

func (rt *runtime) open(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if rt.configPath != "" {
		cfg, err = config.LoadFile(rt.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rt.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(rt.apiURL, "/")
	}
	if rt.storeKind != "" {
		cfg.Store.Driver = rt.storeKind
	}

	mode := rt.logMode
	if mode == "" {
		mode = "quiet"
		if cmd.Name() == "serve" {
			mode = cfg.Env
		}
	}
	log, err := logger.New(mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		log.Sync()
		return err
	}
	rt.app = a
	return nil
}

// run closes the app after fn, whether or not fn failed.
func (rt *runtime) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer rt.app.Close()
		return fn(cmd, args)
	}
}

func (rt *runtime) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (rt *runtime) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// announce prints a notification line the way the page would toast it.
func (rt *runtime) announce(cmd *cobra.Command, n notify.Notification) {
	if rt.asJSON || n.Message == "" {
		return
	}
	prefix := "ok"
	if n.Level == notify.LevelError {
		prefix = "error"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", prefix, n.Message)
}

// Message is the shopper-facing text for err. Errors outside the storefront
// taxonomy (bad flags, config) are printed as they are.
func Message(err error) string {
	n := notify.FromError(err)
	if n.Code == "INTERNAL" {
		return err.Error()
	}
	return n.Message
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.Version)
		},
	}
}
