// Command moltrun runs a single molt script file and exits.
package main

import (
	"fmt"
	"os"

	"github.com/juju/loggo"
	"github.com/spf13/cobra"
	env "github.com/xyproto/env/v2"

	"github.com/moltlang/molt"
)

var logger = loggo.GetLogger("moltrun")

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "moltrun <script>",
		Short:         "Run a molt script file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			molt.SetDebug(debug)
			return runFile(args[0])
		},
	}

	rootCmd.Flags().BoolVar(&debug, "debug", env.Bool("MOLT_DEBUG", false), "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	logger.Debugf("running %s", path)
	globals := molt.NewGlobalEnv()
	_, err = molt.Run(path, string(source), globals)
	return err
}
