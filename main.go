package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackvity/joshbox/internal/apperr"
	"github.com/stackvity/joshbox/internal/cache"
	"github.com/stackvity/joshbox/internal/config"
	"github.com/stackvity/joshbox/internal/engine"
	"github.com/stackvity/joshbox/internal/filesystem"
	"github.com/stackvity/joshbox/internal/listing"
	"github.com/stackvity/joshbox/internal/terminal"
	"github.com/stackvity/joshbox/internal/transfer"
)

// Variables for version embedding via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

const usageBanner = `Usage: joshbox <command> [options]

Available commands:
  ls [options] [path]    List directory contents
  cp SOURCE DEST         Copy files
  mv SOURCE DEST         Move/rename files
  config                 Print the effective configuration

Options for ls:
  -l    Long format (permissions, owner, size, date)
  -a    Show hidden files
  -h    Human-readable sizes (use with -l)
`

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	args   []string
	opts   *config.Options
	logger *slog.Logger
	fs     filesystem.FileSystem
	stderr io.Writer
}

func newRootCmd(args []string, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		args:   args,
		opts:   &config.Options{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		fs:     filesystem.NewRealFileSystem(),
		stderr: stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "joshbox <command> [options]",
		Short: "A small ls/cp/mv toolbox",
		Long: `joshbox bundles minimal versions of ls, cp and mv.

ls prints a column grid or a long listing; cp and mv transfer single
files, or several files into a directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Global flags are parsed by the root only, so they must precede the
		// subcommand name.
		TraverseChildren: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown command: %s\nAvailable commands: ls, cp, mv, config", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), usageBanner)
			return nil
		},
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("joshbox version %s (commit: %s, built: %s)\n", version, commit, date))

	rootCmd.Flags().StringVar(&a.opts.ConfigFile, "config", "", "Configuration file path (default: .joshbox.yaml)")
	rootCmd.Flags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Enable verbose debug logging")
	rootCmd.Flags().IntVar(&a.opts.Width, "width", 0, "Terminal width for column output (0 to detect)")

	rootCmd.AddCommand(a.newLsCmd(), a.newTransferCmd(engine.ModeCopy), a.newTransferCmd(engine.ModeMove), a.newConfigCmd())
	return rootCmd
}

func (a *app) newLsCmd() *cobra.Command {
	var lopts config.ListingOptions
	cmd := &cobra.Command{
		Use:   "ls [-l] [-a] [-h] [path]",
		Short: "List directory contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[len(args)-1]
			}
			out := cmd.OutOrStdout()
			width := func() int {
				if a.opts.Width > 0 {
					return a.opts.Width
				}
				if f, ok := out.(*os.File); ok {
					return terminal.Width(f.Fd())
				}
				return terminal.DefaultWidth
			}
			lister := listing.NewLister(a.fs, cache.NewNameCache(a.logger), out, width, a.opts.MaxEntries, a.logger)
			return lister.List(path, lopts)
		},
	}
	cmd.Flags().BoolVarP(&lopts.Long, "long", "l", false, "Long format (permissions, owner, size, date)")
	cmd.Flags().BoolVarP(&lopts.All, "all", "a", false, "Show hidden files")
	cmd.Flags().BoolVarP(&lopts.HumanReadable, "human-readable", "h", false, "Human-readable sizes (use with -l)")
	// Declared here so cobra does not claim -h for help.
	cmd.Flags().Bool("help", false, "help for ls")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		tok, short := unknownOption(c, commandArgs(a.args, c))
		switch {
		case short != 0:
			return apperr.New(apperr.KindOperand, "invalid option -- '%c'", short)
		case tok != "":
			return apperr.New(apperr.KindOperand, "unrecognized option '%s'", tok)
		}
		return apperr.Wrap(apperr.KindOperand, err, "invalid option")
	})
	return cmd
}

func (a *app) newTransferCmd(mode engine.Mode) *cobra.Command {
	name := mode.String()
	short := "Copy files"
	if mode == engine.ModeMove {
		short = "Move/rename files"
	}
	usage := fmt.Sprintf("Usage: %s SOURCE DEST\n   or: %s SOURCE... DIRECTORY", name, name)

	// cp and mv take no options of their own, so flag parsing is off and
	// transferOperands rejects anything that looks like one.
	cmd := &cobra.Command{
		Use:                name + " SOURCE... DEST",
		Short:              short,
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			operands, err := transferOperands(args)
			if err != nil {
				return err
			}
			if len(operands) < 2 {
				return apperr.New(apperr.KindOperand, "missing file operand\n%s", usage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			operands, err := transferOperands(args)
			if err != nil {
				return err
			}
			copier := transfer.NewCopier(a.fs, a.opts.BufferSize, a.logger)
			eng := engine.NewEngine(a.fs, copier, a.logger)
			last := len(operands) - 1
			_, err = eng.Run(cmd.Context(), mode, operands[:last], operands[last], config.TransferOptions{})
			return err
		},
	}
	return cmd
}

// transferOperands returns the file operands in args. A "--" ends option
// processing; any earlier token starting with '-' is an unsupported option.
func transferOperands(args []string) ([]string, error) {
	operands := make([]string, 0, len(args))
	for i, tok := range args {
		if tok == "--" {
			return append(operands, args[i+1:]...), nil
		}
		if len(tok) > 1 && tok[0] == '-' {
			return nil, apperr.New(apperr.KindUnsupportedOption, "option '%s' not supported yet", tok)
		}
		operands = append(operands, tok)
	}
	return operands, nil
}

func (a *app) newConfigCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Render(cmd.OutOrStdout(), *a.opts, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: 'yaml' or 'toml'")
	return cmd
}

// commandArgs returns the tokens that follow c's name in args.
func commandArgs(args []string, c *cobra.Command) []string {
	for i, tok := range args {
		if tok == c.Name() {
			return args[i+1:]
		}
	}
	return args
}

// unknownOption finds the first token in args that c's flag set does not
// know. For a grouped short token such as -lx it also returns the offending
// letter.
func unknownOption(c *cobra.Command, args []string) (string, rune) {
	flags := c.Flags()
	for _, tok := range args {
		if tok == "--" {
			break
		}
		if strings.HasPrefix(tok, "--") {
			name, _, _ := strings.Cut(tok[2:], "=")
			if flags.Lookup(name) == nil {
				return tok, 0
			}
			continue
		}
		if len(tok) < 2 || tok[0] != '-' {
			continue
		}
		for _, r := range tok[1:] {
			if flags.ShorthandLookup(string(r)) == nil {
				return tok, r
			}
		}
	}
	return "", 0
}

// initConfig reads in config file and ENV variables if set, then binds the
// command line flags on top. Precedence: Flags > Env > Config File > Defaults.
func (a *app) initConfig(cmd *cobra.Command) error {
	v := viper.New()

	// 1. Set Defaults
	defaults := config.Defaults()
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("width", defaults.Width)
	v.SetDefault("maxEntries", defaults.MaxEntries)
	v.SetDefault("bufferSize", defaults.BufferSize)

	// 2. Bind Environment Variables
	v.SetEnvPrefix("JOSHBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// 3. Read Config File
	if a.opts.ConfigFile != "" {
		v.SetConfigFile(a.opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", a.opts.ConfigFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".joshbox")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			// Ignore "file not found" errors if no specific file was requested
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	// 4. Bind Cobra Flags (Highest Precedence if set)
	if err := v.BindPFlags(cmd.Root().Flags()); err != nil {
		return fmt.Errorf("internal error binding flags to viper: %w", err)
	}

	if err := v.Unmarshal(a.opts); err != nil {
		return fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	if err := a.opts.ValidateConfig(); err != nil {
		return err
	}

	// Logging Setup
	logLevel := slog.LevelInfo
	if a.opts.Verbose {
		logLevel = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: logLevel}))
	a.logger.Debug("Configuration loaded and validated successfully", "options", *a.opts, "configFile", v.ConfigFileUsed())
	return nil
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(args, stdout, stderr)
	executed, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		name := rootCmd.Name()
		if executed != nil {
			name = executed.Name()
		}
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitCodeFailure
	}
	return ExitCodeSuccess
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
