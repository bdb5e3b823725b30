package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gitstamp/internal/gitstatus"
	"github.com/temirov/gitstamp/internal/stamp"
)

const (
	ldflagsCommandUseConstant              = "ldflags"
	ldflagsCommandShortDescriptionConstant = "Print -X linker flags that stamp the build metadata"
	ldflagsCommandLongDescriptionConstant  = "ldflags collects the repository status and prints -X assignments for the buildinfo variables, ready for go build -ldflags."
	ldflagsPackagePathFlagNameConstant     = "package-path"
	ldflagsPackagePathFlagUsageConstant    = "Import path of the package holding the Branch, Commit, Repository, VersionString, and DirtyFiles variables."
	ldflagsOutputTemplateConstant          = "%s\n"
)

// LDFlagsConfigurationProvider supplies the ldflags command configuration.
type LDFlagsConfigurationProvider func() LDFlagsConfiguration

// LDFlagsCommandBuilder assembles the ldflags command.
type LDFlagsCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        LDFlagsConfigurationProvider
	CollectConfigurationProvider CollectConfigurationProvider
	Collector                    gitstatus.Collector
}

// Build constructs the cobra command for printing linker flags.
func (builder *LDFlagsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   ldflagsCommandUseConstant,
		Short: ldflagsCommandShortDescriptionConstant,
		Long:  ldflagsCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(ldflagsPackagePathFlagNameConstant, stamp.DefaultBuildInfoPackagePath, ldflagsPackagePathFlagUsageConstant)

	return command, nil
}

func (builder *LDFlagsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	packagePath := stamp.DefaultBuildInfoPackagePath
	if builder.ConfigurationProvider != nil {
		if configuredPackagePath := strings.TrimSpace(builder.ConfigurationProvider().PackagePath); len(configuredPackagePath) > 0 {
			packagePath = configuredPackagePath
		}
	}
	if command.Flags().Changed(ldflagsPackagePathFlagNameConstant) {
		packagePath, _ = command.Flags().GetString(ldflagsPackagePathFlagNameConstant)
	}

	resolver := snapshotResolver{
		loggerProvider:        builder.LoggerProvider,
		configurationProvider: builder.CollectConfigurationProvider,
		collector:             builder.Collector,
	}
	collected, collectError := resolver.resolve(command.Context())
	if collectError != nil {
		return collectError
	}

	linkerFlags, flagsError := stamp.LinkerFlags(packagePath, collected.snapshot, collected.version)
	if flagsError != nil {
		return flagsError
	}

	_, writeError := fmt.Fprintf(command.OutOrStdout(), ldflagsOutputTemplateConstant, linkerFlags)
	return writeError
}
