package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd, closeApp := newRootCmd()
	return executeAndClose(rootCmd, closeApp)
}

// executeAndClose releases the cache backend even when the command fails.
func executeAndClose(rootCmd *cobra.Command, closeApp func() error) error {
	err := rootCmd.Execute()
	if closeErr := closeApp(); closeErr != nil && err == nil {
		err = fmt.Errorf("close cache: %w", closeErr)
	}
	return err
}

func newRootCmd() (*cobra.Command, func() error) {
	rootCmd := &cobra.Command{
		Use:           "usah",
		Short:         "USA Home CLI (usah): manage professional services and monthly fees",
		Long:          "usah (USA Home CLI) lists, adds and removes the professional services on a USA Home account, reconciles them with the backend, and shows the resulting monthly listing fee.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() error { return nil }
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newCatalogCmd(),
		newServicesCmd(app),
		newFeeCmd(app),
	)

	return rootCmd, app.close
}
