package propagate

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/discovery"
	"github.com/temirov/repokeeper/internal/gitperms"
	"github.com/temirov/repokeeper/internal/ignorefile"
	"github.com/temirov/repokeeper/internal/instructions"
	"github.com/temirov/repokeeper/internal/sourceset"
	"github.com/temirov/repokeeper/internal/syncfile"
	"github.com/temirov/repokeeper/internal/utils"
	flagutils "github.com/temirov/repokeeper/internal/utils/flags"
	pathutils "github.com/temirov/repokeeper/internal/utils/path"
)

const (
	commandUseConstant                    = "propagate"
	commandShortDescriptionConstant       = "Propagate shared style guides, scripts, and ignore entries across repositories"
	commandLongDescriptionConstant        = "propagate copies canonical style guides, developer scripts, and test scaffolding into every repository under the base directory, reconciles .gitignore contents, repairs group-write permissions on git metadata, and keeps the agent guidance file current."
	commandExecutionErrorTemplateConstant = "propagation failed: %w"
	unexpectedArgumentsMessageConstant    = "propagate does not accept positional arguments"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunShorthandConstant           = "n"
	flagDryRunDescriptionConstant         = "Only display planned changes"
	flagSourceDirNameConstant             = "source-dir"
	flagSourceDirDescriptionConstant      = "Directory containing the canonical style guides and scripts"
	flagRepoNameConstant                  = "repo"
	flagRepoDescriptionConstant           = "Only update the named repository under the base directory"
	configurationOriginMessageConstant    = "using configuration file"
	logFieldConfigurationFileConstant     = "config_file"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for propagation runs.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Collector             RepositoryCollector
	PermissionRepairer    PermissionRepairer
	IgnoreReconciler      IgnoreReconciler
	Synchronizer          FileSynchronizer
	SourceResolver        SourceResolver
	GuidanceMaintainer    GuidanceMaintainer
	SummaryWriter         io.Writer
	HostPlatform          string
}

// Build constructs the propagate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	flagutils.AddToggleFlag(command.Flags(), new(bool), flagDryRunNameConstant, flagDryRunShorthandConstant, false, flagDryRunDescriptionConstant)
	command.Flags().String(flagSourceDirNameConstant, "", flagSourceDirDescriptionConstant)
	command.Flags().String(flagRepoNameConstant, "", flagRepoDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration().sanitize()
	configuration = applyFlagOverrides(command, configuration)

	logger := builder.resolveLogger()
	logConfigurationOrigin(logger, command)

	homeExpander := pathutils.NewHomeExpander()
	baseDirectory, baseDirectoryError := filepath.Abs(homeExpander.Expand(configuration.BaseDirectory))
	if baseDirectoryError != nil {
		return baseDirectoryError
	}

	collector := builder.resolveCollector()
	targetRepositoryPath, targetResolutionError := collector.ResolveTargetRepository(baseDirectory, configuration.RepositoryName)
	if targetResolutionError != nil {
		return targetResolutionError
	}

	sourceResolver := builder.resolveSourceResolver(homeExpander)
	sourceDirectory, sourceDirectoryError := sourceResolver.ResolveSourceDirectory(baseDirectory, configuration.SourceDirectory)
	if sourceDirectoryError != nil {
		return sourceDirectoryError
	}

	sourceSet, sourceSetError := sourceResolver.BuildSourceSet(
		sourceDirectory,
		defaultStyleTargets,
		defaultNoOverwriteTargets,
		defaultDevelopmentScripts,
		defaultTestScripts,
	)
	if sourceSetError != nil {
		return sourceSetError
	}

	guidanceMaintainer := builder.resolveGuidanceMaintainer(configuration)
	service, serviceError := NewService(
		logger,
		collector,
		builder.resolvePermissionRepairer(),
		builder.resolveIgnoreReconciler(),
		builder.resolveSynchronizer(),
		guidanceMaintainer,
		configuration.InstructionsFile,
	)
	if serviceError != nil {
		return serviceError
	}

	runResult, runError := service.Run(RunOptions{
		BaseDirectory:           baseDirectory,
		TargetRepositoryPath:    targetRepositoryPath,
		DryRun:                  configuration.DryRun,
		NoOverwritePolicy:       NoOverwritePolicy(configuration.NoOverwritePolicy),
		SourceSet:               sourceSet,
		StyleTargets:            defaultStyleTargets,
		NoOverwriteTargets:      defaultNoOverwriteTargets,
		DevelopmentScripts:      defaultDevelopmentScripts,
		DeprecatedTestScripts:   defaultDeprecatedTestScripts,
		DeprecatedIgnoreEntries: defaultDeprecatedIgnoreEntries,
		RequiredIgnoreEntries:   defaultRequiredIgnoreEntries,
	})
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	summaryWriter := builder.SummaryWriter
	if summaryWriter == nil {
		summaryWriter = command.OutOrStdout()
	}
	NewSummaryRenderer(summaryWriter).Render(runResult)

	return nil
}

// logConfigurationOrigin records which configuration file produced the
// effective settings when the application stored one in the command context.
func logConfigurationOrigin(logger *zap.Logger, command *cobra.Command) {
	contextAccessor := utils.NewCommandContextAccessor()
	configurationFilePath, configurationFileAvailable := contextAccessor.ConfigurationFilePath(command.Context())
	if !configurationFileAvailable || len(strings.TrimSpace(configurationFilePath)) == 0 {
		return
	}
	logger.Debug(configurationOriginMessageConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
}

func applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration) CommandConfiguration {
	if command.Flags().Changed(flagDryRunNameConstant) {
		dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
		configuration.DryRun = dryRunValue
	}
	if command.Flags().Changed(flagSourceDirNameConstant) {
		sourceDirValue, _ := command.Flags().GetString(flagSourceDirNameConstant)
		configuration.SourceDirectory = strings.TrimSpace(sourceDirValue)
	}
	if command.Flags().Changed(flagRepoNameConstant) {
		repoValue, _ := command.Flags().GetString(flagRepoNameConstant)
		configuration.RepositoryName = strings.TrimSpace(repoValue)
	}
	return configuration
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCollector() RepositoryCollector {
	if builder.Collector != nil {
		return builder.Collector
	}
	return discovery.NewFilesystemRepositoryCollector()
}

func (builder *CommandBuilder) resolvePermissionRepairer() PermissionRepairer {
	if builder.PermissionRepairer != nil {
		return builder.PermissionRepairer
	}
	return gitperms.NewRepairer()
}

func (builder *CommandBuilder) resolveIgnoreReconciler() IgnoreReconciler {
	if builder.IgnoreReconciler != nil {
		return builder.IgnoreReconciler
	}
	return ignorefile.NewReconciler()
}

func (builder *CommandBuilder) resolveSynchronizer() FileSynchronizer {
	if builder.Synchronizer != nil {
		return builder.Synchronizer
	}
	return syncfile.NewSynchronizer()
}

func (builder *CommandBuilder) resolveSourceResolver(homeExpander *pathutils.HomeExpander) SourceResolver {
	if builder.SourceResolver != nil {
		return builder.SourceResolver
	}
	return sourceset.NewResolver(homeExpander)
}

func (builder *CommandBuilder) resolveGuidanceMaintainer(configuration CommandConfiguration) GuidanceMaintainer {
	if builder.GuidanceMaintainer != nil {
		return builder.GuidanceMaintainer
	}
	hostPlatform := builder.HostPlatform
	if len(hostPlatform) == 0 {
		hostPlatform = runtime.GOOS
	}
	return instructions.NewMaintainer(configuration.InstructionsFile, hostPlatform)
}
