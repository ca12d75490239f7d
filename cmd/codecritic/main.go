package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "codecritic",
		Short:         "Score code-audit snapshots and rank what to fix next",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("format", "json", "Output format: json, md, or table")
	root.PersistentFlags().Bool("verbose", false, "Print processing steps to stderr")
	_ = viper.BindPFlag("format", root.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("CODECRITIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(newScoreCmd())
	root.AddCommand(newNextCmd())
	root.AddCommand(newImpactCmd())

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
