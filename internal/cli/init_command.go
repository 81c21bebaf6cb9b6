package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/flatten/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration to .flatten.yaml in the working directory,
or to ~/.flatten/config.yaml with --global. An existing file is kept unless --force is given.`
	globalFlag            = "global"
	forceFlag             = "force"
	globalFlagDescription = "write the global configuration file"
	forceFlagDescription  = "overwrite an existing configuration file"
	initCompletedTemplate = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(runtime environment) *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            overwrite,
				WorkingDirectory: runtime.workingDirectory,
				HomeDirectory:    runtime.homeDirectory,
			})
			if initErr != nil {
				return initErr
			}
			_, printErr := fmt.Fprintf(runtime.standardOutput, initCompletedTemplate, writtenPath)
			return printErr
		},
	}
	registerToggleFlag(initCommand.Flags(), &writeGlobal, globalFlag, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &overwrite, forceFlag, forceFlagDescription)
	return initCommand
}
