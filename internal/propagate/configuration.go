package propagate

import "strings"

const (
	defaultBaseDirectoryConstant     = "~/nsh"
	defaultInstructionsFileConstant  = "AGENTS.md"
	defaultNoOverwritePolicyConstant = string(NoOverwritePolicyCopyIfMissing)

	configurationBaseDirectoryKeyConstant     = "base_dir"
	configurationSourceDirectoryKeyConstant   = "source_dir"
	configurationRepositoryKeyConstant        = "repo"
	configurationDryRunKeyConstant            = "dry_run"
	configurationInstructionsFileKeyConstant  = "instructions_file"
	configurationNoOverwritePolicyKeyConstant = "no_overwrite_policy"
)

// Managed file classes. Targets are repository-relative paths; script names
// are bare file names resolved against their source subdirectory.
var (
	defaultStyleTargets = []string{
		"docs/PYTHON_STYLE.md",
		"docs/MARKDOWN_STYLE.md",
		"docs/REPO_STYLE.md",
		"CLAUDE.md",
	}
	defaultNoOverwriteTargets = []string{
		"AGENTS.md",
		"docs/AUTHORS.md",
		"source_me.sh",
		"pip_requirements-dev.txt",
	}
	defaultDevelopmentScripts = []string{
		"commit_changelog.py",
		"submit_to_pypi.py",
	}
	defaultTestScripts = []string{
		"check_ascii_compliance.py",
		"fix_ascii_compliance.py",
		"fix_whitespace.py",
		"git_file_utils.py",
		"test_init_files.py",
		"test_import_dot.py",
		"test_import_requirements.py",
		"test_import_star.py",
	}
	defaultDeprecatedTestScripts = []string{
		"run_ascii_compliance.sh",
		"run_pyflakes.sh",
		"run_ascii_compliance.py",
		"test_repo_hygiene.py",
		"test_pyflakes.py",
	}
	defaultDeprecatedIgnoreEntries = []string{
		"shebang_report.txt",
		"pyflakes.txt",
		"bandit.txt",
		"pyright.txt",
		"ascii_compliance.txt",
		"report_shebang.txt",
		"report_pyflakes.txt",
		"report_ascii_compliance.txt",
		"report_import_star.txt",
		"report_import_dot.txt",
		"report_import_requirements.txt",
		"report_init_files.txt",
		"report_bandit.txt",
		"report_pyright.txt",
	}
	defaultRequiredIgnoreEntries = []string{
		"report_*.txt",
		".DS_Store",
	}
)

// CommandConfiguration captures persistent settings for the propagate command.
type CommandConfiguration struct {
	BaseDirectory     string `mapstructure:"base_dir"`
	SourceDirectory   string `mapstructure:"source_dir"`
	RepositoryName    string `mapstructure:"repo"`
	DryRun            bool   `mapstructure:"dry_run"`
	InstructionsFile  string `mapstructure:"instructions_file"`
	NoOverwritePolicy string `mapstructure:"no_overwrite_policy"`
}

// DefaultCommandConfiguration returns baseline configuration values for the
// propagate command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BaseDirectory:     defaultBaseDirectoryConstant,
		SourceDirectory:   "",
		RepositoryName:    "",
		DryRun:            false,
		InstructionsFile:  defaultInstructionsFileConstant,
		NoOverwritePolicy: defaultNoOverwritePolicyConstant,
	}
}

// DefaultConfigurationValues exposes the baseline values keyed for
// configuration loading under the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationBaseDirectoryKeyConstant:     defaults.BaseDirectory,
		rootKey + "." + configurationSourceDirectoryKeyConstant:   defaults.SourceDirectory,
		rootKey + "." + configurationRepositoryKeyConstant:        defaults.RepositoryName,
		rootKey + "." + configurationDryRunKeyConstant:            defaults.DryRun,
		rootKey + "." + configurationInstructionsFileKeyConstant:  defaults.InstructionsFile,
		rootKey + "." + configurationNoOverwritePolicyKeyConstant: defaults.NoOverwritePolicy,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.BaseDirectory = strings.TrimSpace(configuration.BaseDirectory)
	if len(sanitized.BaseDirectory) == 0 {
		sanitized.BaseDirectory = defaultBaseDirectoryConstant
	}

	sanitized.SourceDirectory = strings.TrimSpace(configuration.SourceDirectory)
	sanitized.RepositoryName = strings.TrimSpace(configuration.RepositoryName)

	sanitized.InstructionsFile = strings.TrimSpace(configuration.InstructionsFile)
	if len(sanitized.InstructionsFile) == 0 {
		sanitized.InstructionsFile = defaultInstructionsFileConstant
	}

	sanitized.NoOverwritePolicy = strings.TrimSpace(configuration.NoOverwritePolicy)
	if sanitized.NoOverwritePolicy != string(NoOverwritePolicyNever) {
		sanitized.NoOverwritePolicy = string(NoOverwritePolicyCopyIfMissing)
	}

	return sanitized
}
