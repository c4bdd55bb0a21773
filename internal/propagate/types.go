package propagate

import "sort"

// NoOverwritePolicy selects how files in the no-overwrite class are handled.
type NoOverwritePolicy string

// Supported no-overwrite policies.
const (
	// NoOverwritePolicyCopyIfMissing copies a no-overwrite file only when the
	// destination does not exist.
	NoOverwritePolicyCopyIfMissing NoOverwritePolicy = "copy_if_missing"
	// NoOverwritePolicyNever leaves the no-overwrite class untouched.
	NoOverwritePolicyNever NoOverwritePolicy = "never"
)

// Counter names accumulated across one propagation run.
const (
	CounterCopied                        = "copied"
	CounterUpdated                       = "updated"
	CounterCopiedNoOverwrite             = "copied_no_overwrite"
	CounterCreatedChangelog              = "created_changelog"
	CounterSkippedSame                   = "skipped_same"
	CounterSkippedSource                 = "skipped_source"
	CounterSkippedSourceNoOverwrite      = "skipped_source_no_overwrite"
	CounterSkippedExistingNoOverwrite    = "skipped_existing_no_overwrite"
	CounterSkippedNonRepository          = "skipped_non_repo"
	CounterErrors                        = "errors"
	CounterCopiedTests                   = "copied_tests"
	CounterUpdatedTests                  = "updated_tests"
	CounterSkippedSameTests              = "skipped_same_tests"
	CounterSkippedSourceTests            = "skipped_source_tests"
	CounterSkippedTestsNoPython          = "skipped_tests_no_python"
	CounterRemovedDeprecatedTests        = "removed_deprecated_tests"
	CounterCreatedConftest               = "created_conftest"
	CounterGitPermsChanged               = "git_perms_changed"
	CounterGitPermsUnchanged             = "git_perms_unchanged"
	CounterCreatedTestsDirectories       = "created_tests_dirs"
	CounterCreatedDevelDirectories       = "created_devel_dirs"
	CounterSkippedSourceDevel            = "skipped_source_devel"
	CounterIgnoreCreated                 = "gitignore_created"
	CounterIgnoreUpdated                 = "gitignore_updated"
	CounterIgnoreLinesAdded              = "gitignore_lines_added"
	CounterIgnoreCleaned                 = "gitignore_cleaned"
	CounterIgnoreDuplicatesRemoved       = "gitignore_duplicates_removed"
	CounterIgnoreWhitespaceCleaned       = "gitignore_whitespace_cleaned"
	CounterIgnoreDeprecatedFilesCleaned  = "gitignore_deprecated_removed"
	CounterIgnoreDeprecatedLinesRemoved  = "gitignore_deprecated_entries_removed"
	CounterSkippedSameDevel              = "skipped_same_devel"
	CounterCopiedDevel                   = "copied_devel"
	CounterUpdatedDevel                  = "updated_devel"
	CounterSkippedDevelNoPackageManifest = "skipped_devel_no_pyproject"
	CounterInstructionsCreated           = "instructions_created"
	CounterInstructionsUpdated           = "instructions_updated"
)

// Per-file counter group names.
const (
	FileGroupSkippedSameStyles          = "skipped_same_styles"
	FileGroupCopiedStyles               = "copied_styles"
	FileGroupUpdatedStyles              = "updated_styles"
	FileGroupSkippedExistingNoOverwrite = "skipped_existing_no_overwrite"
	FileGroupSkippedSourceNoOverwrite   = "skipped_source_no_overwrite"
	FileGroupCopiedNoOverwrite          = "copied_no_overwrite"
	FileGroupSkippedSameTests           = "skipped_same_tests"
	FileGroupCopiedTests                = "copied_tests"
	FileGroupUpdatedTests               = "updated_tests"
	FileGroupSkippedTestsNoPython       = "skipped_tests_no_python"
	FileGroupSkippedSameDevel           = "skipped_same_devel"
	FileGroupCopiedDevel                = "copied_devel"
	FileGroupUpdatedDevel               = "updated_devel"
	FileGroupSkippedDevelNoManifest     = "skipped_devel_no_pyproject"
)

// expectedBaseline is the display-only reference value for each counter in a
// steady-state run. Nothing is enforced against it.
var expectedBaseline = map[string]int{
	CounterCopied:                        0,
	CounterUpdated:                       0,
	CounterCopiedNoOverwrite:             0,
	CounterCreatedChangelog:              0,
	CounterSkippedSame:                   0,
	CounterSkippedSource:                 0,
	CounterSkippedSourceNoOverwrite:      0,
	CounterSkippedExistingNoOverwrite:    0,
	CounterSkippedNonRepository:          0,
	CounterErrors:                        0,
	CounterCopiedTests:                   0,
	CounterUpdatedTests:                  0,
	CounterSkippedSameTests:              0,
	CounterSkippedSourceTests:            0,
	CounterSkippedTestsNoPython:          0,
	CounterRemovedDeprecatedTests:        0,
	CounterCreatedConftest:               0,
	CounterGitPermsChanged:               0,
	CounterGitPermsUnchanged:             0,
	CounterCreatedTestsDirectories:       0,
	CounterCreatedDevelDirectories:       0,
	CounterSkippedSourceDevel:            0,
	CounterIgnoreCreated:                 0,
	CounterIgnoreUpdated:                 0,
	CounterIgnoreLinesAdded:              0,
	CounterIgnoreCleaned:                 0,
	CounterIgnoreDuplicatesRemoved:       0,
	CounterIgnoreWhitespaceCleaned:       0,
	CounterIgnoreDeprecatedFilesCleaned:  0,
	CounterIgnoreDeprecatedLinesRemoved:  0,
	CounterSkippedSameDevel:              0,
	CounterCopiedDevel:                   0,
	CounterUpdatedDevel:                  0,
	CounterSkippedDevelNoPackageManifest: 0,
	CounterInstructionsCreated:           0,
	CounterInstructionsUpdated:           0,
}

// Counters accumulates run metrics. It is owned and mutated by one Service
// run only.
type Counters struct {
	values  map[string]int
	byFile  map[string]map[string]int
	ordered map[string][]string
}

// NewCounters constructs a zeroed accumulator with every known counter
// present.
func NewCounters() *Counters {
	values := make(map[string]int, len(expectedBaseline))
	for counterName := range expectedBaseline {
		values[counterName] = 0
	}
	return &Counters{
		values:  values,
		byFile:  map[string]map[string]int{},
		ordered: map[string][]string{},
	}
}

// RegisterFileGroup pre-populates a per-file group with zero counts in the
// supplied display order.
func (counters *Counters) RegisterFileGroup(groupName string, fileNames []string) {
	groupCounts := make(map[string]int, len(fileNames))
	for _, fileName := range fileNames {
		groupCounts[fileName] = 0
	}
	counters.byFile[groupName] = groupCounts
	counters.ordered[groupName] = append([]string{}, fileNames...)
}

// Increment adds one to the named counter.
func (counters *Counters) Increment(counterName string) {
	counters.values[counterName]++
}

// Add raises the named counter by the supplied amount.
func (counters *Counters) Add(counterName string, amount int) {
	counters.values[counterName] += amount
}

// IncrementForFile raises one per-file count inside a registered group.
func (counters *Counters) IncrementForFile(groupName string, fileName string) {
	groupCounts, groupKnown := counters.byFile[groupName]
	if !groupKnown {
		groupCounts = map[string]int{}
		counters.byFile[groupName] = groupCounts
	}
	if _, fileKnown := groupCounts[fileName]; !fileKnown {
		counters.ordered[groupName] = append(counters.ordered[groupName], fileName)
	}
	groupCounts[fileName]++
}

// Value returns the named counter's current value.
func (counters *Counters) Value(counterName string) int {
	return counters.values[counterName]
}

// Expected returns the display baseline for the named counter.
func (counters *Counters) Expected(counterName string) int {
	return expectedBaseline[counterName]
}

// FileCounts returns the per-file counts of a group in registration order.
func (counters *Counters) FileCounts(groupName string) ([]string, map[string]int) {
	orderedNames, orderKnown := counters.ordered[groupName]
	if !orderKnown {
		orderedNames = []string{}
		for fileName := range counters.byFile[groupName] {
			orderedNames = append(orderedNames, fileName)
		}
		sort.Strings(orderedNames)
	}
	return orderedNames, counters.byFile[groupName]
}
