package propagate

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repokeeper/internal/utils"
)

func TestLogConfigurationOriginReportsContextValue(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	logger := zap.New(observedCore)

	command := &cobra.Command{Use: commandUseConstant}
	contextAccessor := utils.NewCommandContextAccessor()
	command.SetContext(contextAccessor.WithConfigurationFilePath(context.Background(), "/etc/repokeeper/config.yaml"))

	logConfigurationOrigin(logger, command)

	logEntries := observedLogs.FilterMessage(configurationOriginMessageConstant).All()
	require.Len(testInstance, logEntries, 1)
	require.Equal(testInstance, "/etc/repokeeper/config.yaml", logEntries[0].ContextMap()[logFieldConfigurationFileConstant])
}

func TestLogConfigurationOriginSkipsMissingValue(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	logger := zap.New(observedCore)

	command := &cobra.Command{Use: commandUseConstant}
	command.SetContext(context.Background())

	logConfigurationOrigin(logger, command)

	require.Zero(testInstance, observedLogs.Len())
}
