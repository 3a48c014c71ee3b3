package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/msh/core"
	"github.com/josephlewis42/msh/core/config"
	"github.com/josephlewis42/msh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	cfgPath    string
	exitStatus int
)

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(afero.NewOsFs(), cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// newInput picks the line editor for terminals and a plain reader otherwise.
func newInput(cmd *cobra.Command, cfg *config.Configuration) (core.LineReader, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return core.NewTerminalReader(os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.HistorySize)
	}

	return core.NewPlainReader(cmd.InOrStdin(), cmd.OutOrStdout()), nil
}

// colorable reports whether w is a terminal that accepts color codes.
func colorable(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	if _, set := os.LookupEnv("NO_COLOR"); set || os.Getenv("TERM") == "dumb" {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// rootCmd runs the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "msh",
	Short: "A minimal interactive shell",
	Long: `msh reads command lines, runs the builtins q, quit, exit, cd and
history itself and runs everything else as a child process, waiting for it
to finish before prompting again. !N re-runs line N of the history list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sessionLog, err := logger.Open(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer sessionLog.Sync()

		input, err := newInput(cmd, cfg)
		if err != nil {
			return err
		}

		shell, err := core.NewShell(core.ShellOptions{
			Config: cfg,
			Input:  input,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Executor: &core.ProcessExecutor{
				Stdin:  os.Stdin,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			},
			Logger:      sessionLog,
			SessionID:   fmt.Sprintf("%d", os.Getpid()),
			ColorErrors: colorable(cmd.ErrOrStderr()),
		})
		if err != nil {
			input.Close()
			return err
		}
		defer shell.Close()

		exitStatus = shell.Run(cmd.Context())
		sessionLog.Debug("shell exited", zap.Int("status", exitStatus))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
	os.Exit(exitStatus)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file or directory containing "+config.ConfigurationName)
}
