package lint

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/gitfiles"
)

const (
	checkCommandUseConstant                 = "check"
	checkCommandShortDescription            = "Run repository hygiene checks"
	checkCommandLongDescription             = "check runs lint-style hygiene checks over tracked and changed Python files, appending findings to report files at the repository root."
	importsCommandUseConstant               = "imports"
	importsCommandShortDescription          = "Detect relative from-imports in Python files"
	initsCommandUseConstant                 = "inits"
	initsCommandShortDescription            = "Detect disallowed statement shapes in __init__.py files"
	unexpectedArgumentsMessage              = "check subcommands do not accept positional arguments"
	flagRepositoryRootNameConstant          = "root"
	flagRepositoryRootDescription           = "Repository to check (default: repository containing the working directory)"
	configurationSkipDirectoriesKeyConstant = "skip_directories"
)

var errUnexpectedCheckArguments = errors.New(unexpectedArgumentsMessage)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective check configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandConfiguration captures persistent settings for the check commands.
type CommandConfiguration struct {
	SkipDirectories []string `mapstructure:"skip_directories"`
}

// DefaultCommandConfiguration returns baseline configuration values for the
// check commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{SkipDirectories: nil}
}

// DefaultConfigurationValues exposes the baseline values keyed for
// configuration loading under the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationSkipDirectoriesKeyConstant: defaults.SkipDirectories,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitizedDirectories := make([]string, 0, len(configuration.SkipDirectories))
	for _, directoryName := range configuration.SkipDirectories {
		trimmedName := strings.TrimSpace(directoryName)
		if len(trimmedName) == 0 {
			continue
		}
		sanitizedDirectories = append(sanitizedDirectories, trimmedName)
	}
	sanitized.SkipDirectories = sanitizedDirectories
	return sanitized
}

// CommandBuilder assembles the check command tree.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileLister            TrackedFileLister
}

// Build constructs the check command with its imports and inits subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	checkCommand := &cobra.Command{
		Use:   checkCommandUseConstant,
		Short: checkCommandShortDescription,
		Long:  checkCommandLongDescription,
	}
	checkCommand.PersistentFlags().String(flagRepositoryRootNameConstant, "", flagRepositoryRootDescription)

	importsCommand := &cobra.Command{
		Use:   importsCommandUseConstant,
		Short: importsCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runCheck(command, arguments, NewImportCheckService)
		},
	}
	initsCommand := &cobra.Command{
		Use:   initsCommandUseConstant,
		Short: initsCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runCheck(command, arguments, NewInitCheckService)
		},
	}

	checkCommand.AddCommand(importsCommand)
	checkCommand.AddCommand(initsCommand)
	return checkCommand, nil
}

func (builder *CommandBuilder) runCheck(
	command *cobra.Command,
	arguments []string,
	serviceConstructor func(logger *zap.Logger, fileCollector *FileCollector) (*CheckService, error),
) error {
	if len(arguments) > 0 {
		return errUnexpectedCheckArguments
	}

	configuration := builder.resolveConfiguration().sanitize()
	logger := builder.resolveLogger()

	fileLister, listerError := builder.resolveFileLister(logger)
	if listerError != nil {
		return listerError
	}

	repositoryRoot, rootError := builder.resolveRepositoryRoot(command, fileLister)
	if rootError != nil {
		return rootError
	}

	fileCollector := NewFileCollector(fileLister, configuration.SkipDirectories)
	checkService, serviceError := serviceConstructor(logger, fileCollector)
	if serviceError != nil {
		return serviceError
	}

	return checkService.Run(command.Context(), repositoryRoot)
}

func (builder *CommandBuilder) resolveRepositoryRoot(command *cobra.Command, fileLister TrackedFileLister) (string, error) {
	rootFlagValue, _ := command.Flags().GetString(flagRepositoryRootNameConstant)
	trimmedRoot := strings.TrimSpace(rootFlagValue)
	if len(trimmedRoot) > 0 {
		return trimmedRoot, nil
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", workingDirectoryError
	}
	return fileLister.ResolveRepositoryRoot(command.Context(), workingDirectory)
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

func (builder *CommandBuilder) resolveFileLister(logger *zap.Logger) (TrackedFileLister, error) {
	if builder.FileLister != nil {
		return builder.FileLister, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner)
	if executorError != nil {
		return nil, executorError
	}
	return gitfiles.NewRepositoryFileLister(shellExecutor)
}
