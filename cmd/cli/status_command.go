package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitstamp/internal/gitstatus"
	"github.com/temirov/gitstamp/internal/report"
	flagutils "github.com/temirov/gitstamp/internal/utils/flags"
)

const (
	statusCommandUseConstant                = "status"
	statusCommandShortDescriptionConstant   = "Print the repository build metadata"
	statusCommandLongDescriptionConstant    = "status collects the branch, commit, repository, version, and dirty files of the working tree and prints them as text or YAML."
	statusFormatFlagNameConstant            = "format"
	statusFormatFlagDescriptionConstant     = "Output format."
	statusIncludeDirtyFlagNameConstant      = "include-dirty"
	statusIncludeDirtyFlagUsageConstant     = "Append the dirty file section to text output."
	statusFormatTextConstant                = "text"
	statusFormatYAMLConstant                = "yaml"
	yamlIndentConstant                      = 2
	unsupportedStatusFormatMessageConstant  = "unsupported status format"
	unsupportedStatusFormatTemplateConstant = "%w: %q"
	yamlEncodeErrorTemplateConstant         = "encode status yaml: %w"
)

// ErrUnsupportedStatusFormat indicates a configured status format outside text and yaml.
var ErrUnsupportedStatusFormat = errors.New(unsupportedStatusFormatMessageConstant)

// StatusConfigurationProvider supplies the status command configuration.
type StatusConfigurationProvider func() StatusConfiguration

// StatusCommandBuilder assembles the status command.
type StatusCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        StatusConfigurationProvider
	CollectConfigurationProvider CollectConfigurationProvider
	Collector                    gitstatus.Collector
}

type statusDocument struct {
	Branch       string              `yaml:"branch"`
	Commit       string              `yaml:"commit"`
	Repository   string              `yaml:"repository"`
	Version      string              `yaml:"version"`
	Tag          string              `yaml:"tag,omitempty"`
	TaggedCommit string              `yaml:"tagged_commit,omitempty"`
	CommitTime   string              `yaml:"commit_time,omitempty"`
	Dirty        bool                `yaml:"dirty"`
	DirtyFiles   []dirtyFileDocument `yaml:"dirty_files,omitempty"`
}

type dirtyFileDocument struct {
	Path   string `yaml:"path"`
	Status string `yaml:"status"`
}

// Build constructs the cobra command for printing repository status.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	formatValue := flagutils.NewChoiceValue(statusFormatTextConstant, statusFormatTextConstant, statusFormatYAMLConstant)

	command := &cobra.Command{
		Use:   statusCommandUseConstant,
		Short: statusCommandShortDescriptionConstant,
		Long:  statusCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, formatValue)
		},
	}

	command.Flags().Var(formatValue, statusFormatFlagNameConstant, formatValue.Usage(statusFormatFlagDescriptionConstant))
	command.Flags().Bool(statusIncludeDirtyFlagNameConstant, true, statusIncludeDirtyFlagUsageConstant)

	return command, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, formatValue *flagutils.ChoiceValue) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(statusFormatFlagNameConstant) {
		configuration.Format = formatValue.String()
	}
	if command.Flags().Changed(statusIncludeDirtyFlagNameConstant) {
		configuration.IncludeDirty, _ = command.Flags().GetBool(statusIncludeDirtyFlagNameConstant)
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

	switch strings.ToLower(configuration.Format) {
	case statusFormatTextConstant, "":
		reporter := report.NewReporter(report.Options{DirtyTracking: configuration.IncludeDirty})
		return reporter.Write(command.OutOrStdout(), collected.snapshot.RepositoryStatus(), collected.version)
	case statusFormatYAMLConstant:
		return writeStatusDocument(command.OutOrStdout(), collected)
	default:
		return fmt.Errorf(unsupportedStatusFormatTemplateConstant, ErrUnsupportedStatusFormat, configuration.Format)
	}
}

func (builder *StatusCommandBuilder) resolveConfiguration() StatusConfiguration {
	if builder.ConfigurationProvider == nil {
		return StatusConfiguration{Format: statusFormatTextConstant, IncludeDirty: true}
	}
	return builder.ConfigurationProvider()
}

func writeStatusDocument(writer io.Writer, collected collectedSnapshot) error {
	snapshot := collected.snapshot
	document := statusDocument{
		Branch:       snapshot.Branch,
		Commit:       snapshot.Commit,
		Repository:   snapshot.Repository,
		Version:      collected.version,
		Tag:          snapshot.Tag,
		TaggedCommit: snapshot.TaggedCommit,
		Dirty:        snapshot.Dirty(),
	}
	if !snapshot.CommitTime.IsZero() {
		document.CommitTime = snapshot.CommitTime.Format(time.RFC3339)
	}
	for _, dirtyFile := range snapshot.DirtyFiles {
		document.DirtyFiles = append(document.DirtyFiles, dirtyFileDocument{Path: dirtyFile.Path, Status: dirtyFile.Code.String()})
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, closeError)
	}
	return nil
}
