package utils

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "merge embedded configuration: %w"
	listSeparatorConstant                           = ","
)

// ConfigurationLoaderOptions describes where configuration is looked up.
type ConfigurationLoaderOptions struct {
	ConfigurationName string
	ConfigurationType string
	EnvironmentPrefix string
	SearchPaths       []string

	// EmbeddedConfiguration is merged first and establishes the set of known keys.
	EmbeddedConfiguration []byte
}

// ConfigurationLoader wraps Viper to merge the embedded defaults, an optional
// configuration file, and environment overrides into a typed structure.
type ConfigurationLoader struct {
	options ConfigurationLoaderOptions
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader from the provided options.
func NewConfigurationLoader(options ConfigurationLoaderOptions) *ConfigurationLoader {
	copiedOptions := options
	copiedOptions.SearchPaths = append([]string(nil), options.SearchPaths...)
	copiedOptions.EmbeddedConfiguration = append([]byte(nil), options.EmbeddedConfiguration...)
	return &ConfigurationLoader{options: copiedOptions}
}

// LoadConfiguration populates targetConfiguration. An explicit configuration
// file path must exist; otherwise the search paths are consulted and a missing
// file is not an error. Keys unknown to targetConfiguration are rejected.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.options.ConfigurationName)
	viperInstance.SetConfigType(loader.options.ConfigurationType)

	if len(loader.options.EmbeddedConfiguration) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.options.EmbeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
	}

	for _, searchPath := range loader.options.SearchPaths {
		if len(strings.TrimSpace(searchPath)) > 0 {
			viperInstance.AddConfigPath(searchPath)
		}
	}

	viperInstance.SetEnvPrefix(loader.options.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant))
	viperInstance.AutomaticEnv()

	trimmedConfigurationFilePath := strings.TrimSpace(configurationFilePath)
	if len(trimmedConfigurationFilePath) > 0 {
		viperInstance.SetConfigFile(trimmedConfigurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if len(trimmedConfigurationFilePath) > 0 || !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, func(decoderConfiguration *mapstructure.DecoderConfig) {
		decoderConfiguration.ErrorUnused = true
		decoderConfiguration.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			trimStringValues,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(listSeparatorConstant),
		)
	})
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

func trimStringValues(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if sourceType.Kind() != reflect.String || targetType.Kind() != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(reflect.ValueOf(data).String()), nil
}
