// Package cli implements the storefront command-line interface: a REST
// server over the SQLite backend and a product client built on the crud
// service and facade.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/storefront/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to a process exit code. Errors that do not
// carry a code (flag parsing, unknown commands) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	apiURL    string
	jsonMode  bool
	verbose   bool
}

// app is the state built once per invocation by the root command.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *zap.Logger
}

// NewRootCmd creates the top-level "storefront" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Product catalog server and client",
		Long: "Storefront serves a product catalog over REST and manages it from the\n" +
			"command line through the generic CRUD client.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory for serve and init (default: .storefront-db)")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "base URL of the storefront API (default: "+defaultAPIURL+")")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "print response envelopes as JSON")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newProductsCmd(a))

	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	logger, err := newLogger(a.flags.verbose)
	if err != nil {
		return sysError("initialize logger: %w", err)
	}
	a.logger = logger

	v, err := loadConfig(a.flags.configDir)
	if err != nil {
		return sysError("load config: %w", err)
	}
	if a.flags.apiURL != "" {
		v.Set(cfgKeyAPIURL, a.flags.apiURL)
	}
	a.config = v
	return nil
}

// newLogger builds a production zap logger writing to stderr, at debug level
// when verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

// run executes root with args and reports any error on stderr.
func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}
