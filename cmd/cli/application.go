package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitstamp/internal/buildinfo"
	"github.com/temirov/gitstamp/internal/gitstatus"
	"github.com/temirov/gitstamp/internal/utils"
	flagutils "github.com/temirov/gitstamp/internal/utils/flags"
	pathutils "github.com/temirov/gitstamp/internal/utils/path"
)

const (
	applicationNameConstant                 = "gitstamp"
	applicationShortDescriptionConstant     = "Stamp Go builds with git repository metadata"
	applicationLongDescriptionConstant      = "gitstamp reads the branch, commit, repository, latest tag, and dirty files of a git work tree and turns them into a version string, linker flags, or a generated Go file."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagDescriptionConstant         = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the gitstamp version and exit."
	versionOutputTemplateConstant           = "%s version: %s\n"
	repositoryFlagNameConstant              = "repository"
	repositoryFlagUsageConstant             = "Path inside the git work tree to inspect."
	backendFlagNameConstant                 = "backend"
	backendFlagDescriptionConstant          = "Status backend: the git executable or in-process go-git."
	repositorySourceFlagNameConstant        = "repository-source"
	repositorySourceFlagDescriptionConstant = "Derive the repository identifier from the top-level path or the remote URL."
	remoteFlagNameConstant                  = "remote"
	remoteFlagUsageConstant                 = "Remote consulted when the repository source is remote."
	gitExecutableFlagNameConstant           = "git"
	gitExecutableFlagUsageConstant          = "Path to the git executable used by the git backend."
	environmentPrefixConstant               = "GITSTAMP"
	configurationNameConstant               = "gitstamp"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "gitstamp"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
)

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelValue         *flagutils.ChoiceValue
	logFormatValue        *flagutils.ChoiceValue
	backendValue          *flagutils.ChoiceValue
	repositorySourceValue *flagutils.ChoiceValue
	repositoryFlagValue   string
	remoteFlagValue       string
	gitExecutableValue    string
	versionFlagValue      bool
	versionResolver       func(context.Context) string
	exitFunction          func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
			ConfigurationName:     configurationNameConstant,
			ConfigurationType:     configurationTypeConstant,
			EnvironmentPrefix:     environmentPrefixConstant,
			SearchPaths:           configurationSearchPaths(),
			EmbeddedConfiguration: EmbeddedDefaultConfiguration(),
		}),
		logger: zap.NewNop(),
		logLevelValue: flagutils.NewChoiceValue(
			string(utils.LogLevelWarn),
			string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError),
		),
		logFormatValue:        flagutils.NewChoiceValue(string(utils.LogFormatConsole), string(utils.LogFormatStructured), string(utils.LogFormatConsole)),
		backendValue:          flagutils.NewChoiceValue(string(gitstatus.BackendGit), string(gitstatus.BackendGit), string(gitstatus.BackendGoGit)),
		repositorySourceValue: flagutils.NewChoiceValue(string(gitstatus.RepositorySourceToplevel), string(gitstatus.RepositorySourceToplevel), string(gitstatus.RepositorySourceRemote)),
		versionResolver: func(context.Context) string {
			return buildinfo.Version()
		},
		exitFunction: os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				return application.printVersion(command)
			}
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.Var(application.logLevelValue, logLevelFlagNameConstant, application.logLevelValue.Usage(logLevelFlagDescriptionConstant))
	persistentFlags.Var(application.logFormatValue, logFormatFlagNameConstant, application.logFormatValue.Usage(logFormatFlagDescriptionConstant))
	persistentFlags.BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)
	persistentFlags.StringVar(&application.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	persistentFlags.Var(application.backendValue, backendFlagNameConstant, application.backendValue.Usage(backendFlagDescriptionConstant))
	persistentFlags.Var(application.repositorySourceValue, repositorySourceFlagNameConstant, application.repositorySourceValue.Usage(repositorySourceFlagDescriptionConstant))
	persistentFlags.StringVar(&application.remoteFlagValue, remoteFlagNameConstant, "", remoteFlagUsageConstant)
	persistentFlags.StringVar(&application.gitExecutableValue, gitExecutableFlagNameConstant, "", gitExecutableFlagUsageConstant)

	collectConfigurationProvider := func() CollectConfiguration {
		return application.configuration.Tools.Collect
	}
	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	statusBuilder := StatusCommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() StatusConfiguration {
			return application.configuration.Tools.Status
		},
		CollectConfigurationProvider: collectConfigurationProvider,
	}
	ldflagsBuilder := LDFlagsCommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() LDFlagsConfiguration {
			return application.configuration.Tools.LDFlags
		},
		CollectConfigurationProvider: collectConfigurationProvider,
	}
	generateBuilder := GenerateCommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() GenerateConfiguration {
			return application.configuration.Tools.Generate
		},
		CollectConfigurationProvider: collectConfigurationProvider,
	}

	for _, buildCommand := range []func() (*cobra.Command, error){
		statusBuilder.Build,
		ldflagsBuilder.Build,
		generateBuilder.Build,
	} {
		if subcommand, buildError := buildCommand(); buildError == nil {
			cobraCommand.AddCommand(subcommand)
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) printVersion(command *cobra.Command) error {
	version := application.versionResolver(command.Context())
	if _, writeError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, version); writeError != nil {
		return writeError
	}
	application.exitFunction(0)
	return nil
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	configurationFilePath := application.configurationFilePath
	if len(configurationFilePath) > 0 {
		configurationFilePath = pathutils.NewExpander().Expand(configurationFilePath)
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	application.applyFlagOverrides(command)

	logLevel, logLevelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	logFormat, logFormatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}

	logger, loggerCreationError := utils.NewLoggerFactoryWithDestination(command.ErrOrStderr()).CreateLogger(logLevel, logFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) applyFlagOverrides(command *cobra.Command) {
	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelValue.String()
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatValue.String()
	}

	collectConfiguration := &application.configuration.Tools.Collect
	if application.persistentFlagChanged(command, repositoryFlagNameConstant) {
		collectConfiguration.Repository = application.repositoryFlagValue
	}
	if application.persistentFlagChanged(command, backendFlagNameConstant) {
		collectConfiguration.Backend = application.backendValue.String()
	}
	if application.persistentFlagChanged(command, repositorySourceFlagNameConstant) {
		collectConfiguration.RepositorySource = application.repositorySourceValue.String()
	}
	if application.persistentFlagChanged(command, remoteFlagNameConstant) {
		collectConfiguration.RemoteName = application.remoteFlagValue
	}
	if application.persistentFlagChanged(command, gitExecutableFlagNameConstant) {
		collectConfiguration.GitExecutable = application.gitExecutableValue
	}
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}
