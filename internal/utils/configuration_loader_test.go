package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstamp/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTGITSTAMP"
	testConfigurationNameConstant     = "gitstamp"
	testConfigurationTypeConstant     = "yaml"
	testConfigurationFileNameConstant = "gitstamp.yaml"
	testEmbeddedConfigurationConstant = "common:\n  log_level: info\ntools:\n  collect:\n    backend: git\n"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
	Tools  configurationToolsFixture  `mapstructure:"tools"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationToolsFixture struct {
	Collect configurationCollectFixture `mapstructure:"collect"`
}

type configurationCollectFixture struct {
	Backend string `mapstructure:"backend"`
}

func newTestConfigurationLoader(searchPaths ...string) *utils.ConfigurationLoader {
	return utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName:     testConfigurationNameConstant,
		ConfigurationType:     testConfigurationTypeConstant,
		EnvironmentPrefix:     testEnvironmentPrefixConstant,
		SearchPaths:           searchPaths,
		EmbeddedConfiguration: []byte(testEmbeddedConfigurationConstant),
	})
}

func writeConfigurationFile(testInstance *testing.T, directory string, content string) string {
	testInstance.Helper()

	configurationFilePath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(content), 0o600))
	return configurationFilePath
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		fileContent         string
		explicitFile        bool
		environmentBackend  string
		expectedLogLevel    string
		expectedBackend     string
		expectConfigFileUse bool
	}{
		{
			name:             "embedded_defaults",
			expectedLogLevel: "info",
			expectedBackend:  "git",
		},
		{
			name:                "searched_file_overrides_embedded",
			fileContent:         "common:\n  log_level: debug\n",
			expectedLogLevel:    "debug",
			expectedBackend:     "git",
			expectConfigFileUse: true,
		},
		{
			name:                "explicit_file_overrides_embedded",
			fileContent:         "tools:\n  collect:\n    backend: \" go-git \"\n",
			explicitFile:        true,
			expectedLogLevel:    "info",
			expectedBackend:     "go-git",
			expectConfigFileUse: true,
		},
		{
			name:                "environment_overrides_file",
			fileContent:         "tools:\n  collect:\n    backend: git\n",
			environmentBackend:  "go-git",
			expectedLogLevel:    "info",
			expectedBackend:     "go-git",
			expectConfigFileUse: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationDirectory := testInstance.TempDir()
			explicitConfigurationFilePath := ""
			expectedConfigurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				expectedConfigurationFilePath = writeConfigurationFile(testInstance, configurationDirectory, testCase.fileContent)
				if testCase.explicitFile {
					explicitConfigurationFilePath = expectedConfigurationFilePath
				}
			}
			if len(testCase.environmentBackend) > 0 {
				testInstance.Setenv(testEnvironmentPrefixConstant+"_TOOLS_COLLECT_BACKEND", testCase.environmentBackend)
			}

			searchPaths := []string{configurationDirectory}
			if testCase.explicitFile {
				searchPaths = nil
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := newTestConfigurationLoader(searchPaths...).LoadConfiguration(explicitConfigurationFilePath, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedBackend, loadedConfiguration.Tools.Collect.Backend)

			if testCase.expectConfigFileUse {
				require.Equal(testInstance, expectedConfigurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	missingConfigurationFilePath := filepath.Join(testInstance.TempDir(), "missing.yaml")

	loadedConfiguration := configurationFixture{}
	_, loadError := newTestConfigurationLoader().LoadConfiguration(missingConfigurationFilePath, &loadedConfiguration)
	require.Error(testInstance, loadError)
}

func TestConfigurationLoaderRejectsUnknownKeys(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, configurationDirectory, "common:\n  log_levle: debug\n")

	loadedConfiguration := configurationFixture{}
	_, loadError := newTestConfigurationLoader(configurationDirectory).LoadConfiguration("", &loadedConfiguration)
	require.ErrorContains(testInstance, loadError, "log_levle")
}
