package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephlewis42/msh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var reportCmd = &cobra.Command{
	Use:   "report [log file]",
	Short: "Summarize a session log, the configured log_file by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			path = config.LogFile
		}
		if path == "" {
			return errors.New("no log file given and log_file isn't configured")
		}

		fd, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fd.Close()

		var report logger.Report
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
