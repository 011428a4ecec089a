package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	diffcmd "github.com/walteh/importdecl/cmd/importdecl/diff"
	"github.com/walteh/importdecl/cmd/importdecl/global"
	parsecmd "github.com/walteh/importdecl/cmd/importdecl/parse"
	scancmd "github.com/walteh/importdecl/cmd/importdecl/scan"
	tokenscmd "github.com/walteh/importdecl/cmd/importdecl/tokens"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	flags := &global.Flags{}

	rootCmd := &cobra.Command{
		Use:   "importdecl",
		Short: "A tool for listing the import declarations of swift source files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(flags.WithLogger(cmd.Context(), cmd.ErrOrStderr()))
		},
	}

	flags.Register(rootCmd)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(scancmd.NewScanCommand(flags))
	rootCmd.AddCommand(tokenscmd.NewTokensCommand())
	rootCmd.AddCommand(parsecmd.NewParseCommand())
	rootCmd.AddCommand(diffcmd.NewDiffCommand(flags))

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
