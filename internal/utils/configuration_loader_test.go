package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/utils"
)

const (
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testEnvironmentPrefixConstant     = "REPOKEEPERTEST"
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: debug\n"
	testEmbeddedConfigurationConstant = "common:\n  log_level: warn\n  log_format: console\n"
	testLogLevelEnvironmentName       = "REPOKEEPERTEST_COMMON_LOG_LEVEL"
	testEnvironmentLogLevelConstant   = "error"
	testDefaultLogFormatValueConstant = "structured"
	testCommonLogFormatDefaultKeyName = "common.log_format"
)

type testLoaderConfiguration struct {
	Common testLoaderCommonConfiguration `mapstructure:"common"`
}

type testLoaderCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func TestConfigurationLoaderAppliesPrecedence(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o644))

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	var configuration testLoaderConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(
		configurationPath,
		map[string]any{testCommonLogFormatDefaultKeyName: testDefaultLogFormatValueConstant},
		&configuration,
	)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationPath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, testDefaultLogFormatValueConstant, configuration.Common.LogFormat)
}

func TestConfigurationLoaderMergesEmbeddedDefaults(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationConstant), testConfigurationTypeConstant)

	var configuration testLoaderConfiguration
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
}

func TestConfigurationLoaderHonorsEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv(testLogLevelEnvironmentName, testEnvironmentLogLevelConstant)

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)

	var configuration testLoaderConfiguration
	_, loadError := loader.LoadConfiguration(
		"",
		map[string]any{"common.log_level": "info"},
		&configuration,
	)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testEnvironmentLogLevelConstant, configuration.Common.LogLevel)
}
