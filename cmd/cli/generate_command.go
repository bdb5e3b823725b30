package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitstamp/internal/gitstatus"
	"github.com/temirov/gitstamp/internal/stamp"
	pathutils "github.com/temirov/gitstamp/internal/utils/path"
)

const (
	generateCommandUseConstant                 = "generate"
	generateCommandShortDescriptionConstant    = "Write a Go source file declaring the build metadata"
	generateCommandLongDescriptionConstant     = "generate collects the repository status and writes a formatted Go file with GitBranch, GitCommit, GitRepository, GitTag, VersionString, and GitDirty constants plus a GitStatus function. Without --output the file is printed to standard output."
	generateOutputFlagNameConstant             = "output"
	generateOutputFlagUsageConstant            = "Destination file; standard output when empty or \"-\"."
	generatePackageFlagNameConstant            = "package"
	generatePackageFlagUsageConstant           = "Package clause of the generated file."
	standardOutputPathConstant                 = "-"
	generatedFilePermissionsConstant           = 0o644
	generatedDirectoryPermissionsConstant      = 0o755
	generatedSourceWrittenMessageConstant      = "generated source written"
	logFieldOutputPathConstant                 = "output_path"
	logFieldPackageNameConstant                = "package"
	createOutputDirectoryErrorTemplateConstant = "create output directory: %w"
	writeOutputErrorTemplateConstant           = "write generated source: %w"
)

// GenerateConfigurationProvider supplies the generate command configuration.
type GenerateConfigurationProvider func() GenerateConfiguration

// GenerateCommandBuilder assembles the generate command.
type GenerateCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        GenerateConfigurationProvider
	CollectConfigurationProvider CollectConfigurationProvider
	Collector                    gitstatus.Collector
}

// Build constructs the cobra command for writing generated Go source.
func (builder *GenerateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   generateCommandUseConstant,
		Short: generateCommandShortDescriptionConstant,
		Long:  generateCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(generateOutputFlagNameConstant, "", generateOutputFlagUsageConstant)
	command.Flags().String(generatePackageFlagNameConstant, stamp.DefaultGeneratedPackageName, generatePackageFlagUsageConstant)

	return command, nil
}

func (builder *GenerateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(generateOutputFlagNameConstant) {
		configuration.Output, _ = command.Flags().GetString(generateOutputFlagNameConstant)
	}
	if command.Flags().Changed(generatePackageFlagNameConstant) {
		configuration.Package, _ = command.Flags().GetString(generatePackageFlagNameConstant)
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

	source, sourceError := stamp.GoSource(configuration.Package, collected.snapshot, collected.version)
	if sourceError != nil {
		return sourceError
	}

	outputPath := strings.TrimSpace(configuration.Output)
	if len(outputPath) == 0 || outputPath == standardOutputPathConstant {
		_, writeError := command.OutOrStdout().Write(source)
		return writeError
	}

	resolvedOutputPath, pathError := pathutils.NewExpander().Absolute(outputPath)
	if pathError != nil {
		return fmt.Errorf(writeOutputErrorTemplateConstant, pathError)
	}
	if directoryError := os.MkdirAll(filepath.Dir(resolvedOutputPath), generatedDirectoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(createOutputDirectoryErrorTemplateConstant, directoryError)
	}
	if writeError := os.WriteFile(resolvedOutputPath, source, generatedFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeOutputErrorTemplateConstant, writeError)
	}

	resolveLogger(builder.LoggerProvider).Info(
		generatedSourceWrittenMessageConstant,
		zap.String(logFieldOutputPathConstant, resolvedOutputPath),
		zap.String(logFieldPackageNameConstant, configuration.Package),
	)
	return nil
}

func (builder *GenerateCommandBuilder) resolveConfiguration() GenerateConfiguration {
	configuration := GenerateConfiguration{Package: stamp.DefaultGeneratedPackageName}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if len(strings.TrimSpace(configuration.Package)) == 0 {
		configuration.Package = stamp.DefaultGeneratedPackageName
	}
	return configuration
}
