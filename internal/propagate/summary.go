package propagate

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

const (
	summaryContextBaseLabel       = "Base dir:"
	summaryContextSourceLabel     = "Source dir:"
	summarySkippedSectionHeader   = "Skipped summary:"
	summaryChangesSectionHeader   = "Changes summary:"
	summaryErrorsLabelConstant    = "Errors:"
	summaryMetricTemplateConstant = "%s: %s (expected %d)\n"
	summaryFileLineTemplate       = "  %s: %s\n"
)

type countFormatter func(value int) string

type summaryMetric struct {
	label       string
	counterName string
	format      countFormatter
}

type summaryFileBlock struct {
	title     string
	groupName string
	format    countFormatter
}

func formatAlways(color pterm.Color) countFormatter {
	return func(value int) string {
		return color.Sprint(fmt.Sprintf("%d", value))
	}
}

func formatPositive(color pterm.Color) countFormatter {
	return func(value int) string {
		if value > 0 {
			return color.Sprint(fmt.Sprintf("%d", value))
		}
		return fmt.Sprintf("%d", value)
	}
}

var skippedMetrics = []summaryMetric{
	{label: "Skipped (same)", counterName: CounterSkippedSame, format: formatAlways(pterm.FgGreen)},
	{label: "Skipped (source)", counterName: CounterSkippedSource, format: formatAlways(pterm.FgGreen)},
	{label: "Skipped (non-repo)", counterName: CounterSkippedNonRepository, format: formatAlways(pterm.FgYellow)},
	{label: "no-overwrite files skipped (already exists)", counterName: CounterSkippedExistingNoOverwrite, format: formatAlways(pterm.FgGreen)},
	{label: "no-overwrite files skipped (source)", counterName: CounterSkippedSourceNoOverwrite, format: formatAlways(pterm.FgGreen)},
	{label: "tests scripts skipped (same)", counterName: CounterSkippedSameTests, format: formatAlways(pterm.FgGreen)},
	{label: "tests scripts skipped (source)", counterName: CounterSkippedSourceTests, format: formatAlways(pterm.FgGreen)},
	{label: "tests scripts skipped (no python)", counterName: CounterSkippedTestsNoPython, format: formatAlways(pterm.FgYellow)},
	{label: "devel scripts skipped (same)", counterName: CounterSkippedSameDevel, format: formatAlways(pterm.FgGreen)},
	{label: "devel scripts skipped (source)", counterName: CounterSkippedSourceDevel, format: formatAlways(pterm.FgGreen)},
	{label: "devel scripts skipped (no pyproject.toml)", counterName: CounterSkippedDevelNoPackageManifest, format: formatAlways(pterm.FgYellow)},
}

var skippedFileBlocks = []summaryFileBlock{
	{title: "Skipped (same) by file:", groupName: FileGroupSkippedSameStyles, format: formatAlways(pterm.FgGreen)},
	{title: "Skipped (same) tests scripts:", groupName: FileGroupSkippedSameTests, format: formatAlways(pterm.FgGreen)},
	{title: "No-overwrite files skipped (already exists):", groupName: FileGroupSkippedExistingNoOverwrite, format: formatAlways(pterm.FgGreen)},
	{title: "No-overwrite files skipped (source):", groupName: FileGroupSkippedSourceNoOverwrite, format: formatAlways(pterm.FgGreen)},
	{title: "Skipped (no python) tests scripts:", groupName: FileGroupSkippedTestsNoPython, format: formatAlways(pterm.FgYellow)},
	{title: "Skipped (same) devel scripts:", groupName: FileGroupSkippedSameDevel, format: formatAlways(pterm.FgGreen)},
	{title: "Skipped (no pyproject.toml) devel scripts:", groupName: FileGroupSkippedDevelNoManifest, format: formatAlways(pterm.FgYellow)},
}

var changeMetrics = []summaryMetric{
	{label: "Git perms updated", counterName: CounterGitPermsChanged, format: formatAlways(pterm.FgBlue)},
	{label: "Git perms unchanged", counterName: CounterGitPermsUnchanged, format: formatAlways(pterm.FgGreen)},
	{label: ".gitignore created", counterName: CounterIgnoreCreated, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore updated", counterName: CounterIgnoreUpdated, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore lines added", counterName: CounterIgnoreLinesAdded, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore cleaned", counterName: CounterIgnoreCleaned, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore duplicates removed", counterName: CounterIgnoreDuplicatesRemoved, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore whitespace cleaned", counterName: CounterIgnoreWhitespaceCleaned, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore deprecated entries removed", counterName: CounterIgnoreDeprecatedFilesCleaned, format: formatPositive(pterm.FgBlue)},
	{label: ".gitignore deprecated lines removed", counterName: CounterIgnoreDeprecatedLinesRemoved, format: formatPositive(pterm.FgBlue)},
	{label: "tests scripts copied", counterName: CounterCopiedTests, format: formatPositive(pterm.FgBlue)},
	{label: "tests scripts updated", counterName: CounterUpdatedTests, format: formatPositive(pterm.FgBlue)},
	{label: "tests deprecated scripts removed", counterName: CounterRemovedDeprecatedTests, format: formatPositive(pterm.FgBlue)},
	{label: "tests/ created", counterName: CounterCreatedTestsDirectories, format: formatPositive(pterm.FgBlue)},
	{label: "tests/conftest.py created", counterName: CounterCreatedConftest, format: formatPositive(pterm.FgBlue)},
	{label: "devel/ created", counterName: CounterCreatedDevelDirectories, format: formatPositive(pterm.FgBlue)},
	{label: "docs/CHANGELOG.md created", counterName: CounterCreatedChangelog, format: formatPositive(pterm.FgBlue)},
	{label: "Instructions file created", counterName: CounterInstructionsCreated, format: formatPositive(pterm.FgBlue)},
	{label: "Instructions file updated", counterName: CounterInstructionsUpdated, format: formatPositive(pterm.FgBlue)},
	{label: "No-overwrite files copied", counterName: CounterCopiedNoOverwrite, format: formatPositive(pterm.FgBlue)},
	{label: "Copied", counterName: CounterCopied, format: formatPositive(pterm.FgBlue)},
	{label: "Updated", counterName: CounterUpdated, format: formatPositive(pterm.FgBlue)},
}

var changeFileBlocks = []summaryFileBlock{
	{title: "Style guides copied by file:", groupName: FileGroupCopiedStyles, format: formatPositive(pterm.FgBlue)},
	{title: "Style guides updated by file:", groupName: FileGroupUpdatedStyles, format: formatPositive(pterm.FgBlue)},
	{title: "No-overwrite files copied by file:", groupName: FileGroupCopiedNoOverwrite, format: formatPositive(pterm.FgBlue)},
	{title: "Tests scripts copied by file:", groupName: FileGroupCopiedTests, format: formatPositive(pterm.FgBlue)},
	{title: "Tests scripts updated by file:", groupName: FileGroupUpdatedTests, format: formatPositive(pterm.FgBlue)},
	{title: "Devel scripts copied by file:", groupName: FileGroupCopiedDevel, format: formatPositive(pterm.FgBlue)},
	{title: "Devel scripts updated by file:", groupName: FileGroupUpdatedDevel, format: formatPositive(pterm.FgBlue)},
}

// SummaryRenderer prints the end-of-run report.
type SummaryRenderer struct {
	writer io.Writer
}

// NewSummaryRenderer constructs a renderer writing to the supplied stream.
func NewSummaryRenderer(writer io.Writer) *SummaryRenderer {
	return &SummaryRenderer{writer: writer}
}

// Render writes the complete run summary.
func (renderer *SummaryRenderer) Render(runResult *RunResult) {
	counters := runResult.Counters

	fmt.Fprintln(renderer.writer)
	fmt.Fprintf(renderer.writer, "%s %s\n", pterm.FgCyan.Sprint(summaryContextBaseLabel), runResult.BaseDirectory)
	fmt.Fprintf(renderer.writer, "%s %s\n", pterm.FgCyan.Sprint(summaryContextSourceLabel), runResult.SourceDirectory)
	fmt.Fprintln(renderer.writer)

	fmt.Fprintln(renderer.writer, pterm.FgCyan.Sprint(summarySkippedSectionHeader))
	renderer.renderMetrics(counters, skippedMetrics)
	renderer.renderFileBlocks(counters, skippedFileBlocks)
	fmt.Fprintln(renderer.writer)

	errorCount := counters.Value(CounterErrors)
	if errorCount > 0 {
		fmt.Fprintf(renderer.writer, "%s   %s\n", summaryErrorsLabelConstant, pterm.FgRed.Sprint(fmt.Sprintf("%d", errorCount)))
	} else {
		fmt.Fprintf(renderer.writer, "%s   %s\n", summaryErrorsLabelConstant, pterm.FgGreen.Sprint(fmt.Sprintf("%d", errorCount)))
	}
	fmt.Fprintln(renderer.writer)

	fmt.Fprintln(renderer.writer, pterm.FgCyan.Sprint(summaryChangesSectionHeader))
	renderer.renderMetrics(counters, changeMetrics)
	renderer.renderFileBlocks(counters, changeFileBlocks)
}

func (renderer *SummaryRenderer) renderMetrics(counters *Counters, metrics []summaryMetric) {
	for _, metric := range metrics {
		formattedValue := metric.format(counters.Value(metric.counterName))
		fmt.Fprintf(renderer.writer, summaryMetricTemplateConstant, metric.label, formattedValue, counters.Expected(metric.counterName))
	}
}

func (renderer *SummaryRenderer) renderFileBlocks(counters *Counters, fileBlocks []summaryFileBlock) {
	for _, fileBlock := range fileBlocks {
		fmt.Fprintln(renderer.writer, fileBlock.title)
		orderedNames, fileCounts := counters.FileCounts(fileBlock.groupName)
		for _, fileName := range orderedNames {
			fmt.Fprintf(renderer.writer, summaryFileLineTemplate, fileName, fileBlock.format(fileCounts[fileName]))
		}
	}
}
