package utils_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/utils"
)

const (
	testSupportedCaseTemplateConstant = "supported_log_level_%s_format_%s"
	testUnsupportedLevelCaseConstant  = "unsupported_log_level"
	testUnsupportedFormatCaseConstant = "unsupported_log_format"
	testInvalidLogLevelValueConstant  = "invalid"
	testInvalidLogFormatValueConstant = "invalid"
	testSubtestNameTemplateConstant   = "%d_%s"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name               string
		requestedLogLevel  utils.LogLevel
		requestedLogFormat utils.LogFormat
		expectError        bool
	}{
		{
			name:               fmt.Sprintf(testSupportedCaseTemplateConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:  utils.LogLevelDebug,
			requestedLogFormat: utils.LogFormatStructured,
		},
		{
			name:               fmt.Sprintf(testSupportedCaseTemplateConstant, utils.LogLevelInfo, utils.LogFormatStructured),
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatStructured,
		},
		{
			name:               fmt.Sprintf(testSupportedCaseTemplateConstant, utils.LogLevelWarn, utils.LogFormatConsole),
			requestedLogLevel:  utils.LogLevelWarn,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:               fmt.Sprintf(testSupportedCaseTemplateConstant, utils.LogLevelError, utils.LogFormatConsole),
			requestedLogLevel:  utils.LogLevelError,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:               testUnsupportedLevelCaseConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelValueConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testUnsupportedFormatCaseConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatValueConstant),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(subtest *testing.T) {
			loggerFactory := utils.NewLoggerFactory()
			createdLogger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(subtest, creationError)
				require.Nil(subtest, createdLogger)
				return
			}
			require.NoError(subtest, creationError)
			require.NotNil(subtest, createdLogger)
		})
	}
}
