// Package observability provides logging, metrics, tracing and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items under a label, followed by an "and N more" line
func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintParsedResume outputs a summary of a parsed resume.
func (p *Printer) PrintParsedResume(resume *types.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	if resume.Summary != "" {
		fmt.Fprintf(&sb, "Summary:  %s\n\n", truncate(resume.Summary, 45))
	}
	writeList(&sb, "Skills", resume.Skills, maxItemsToShow)

	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		for _, exp := range resume.Experience[:min(len(resume.Experience), maxItemsToShow)] {
			fmt.Fprintf(&sb, "  • %s at %s (%d bullets)\n", exp.Role, exp.Company, len(exp.Bullets))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Projects: %d  Education: %d", len(resume.Projects), len(resume.Education))
	p.printBox("PARSED RESUME", sb.String())
}

// PrintJobAnalysis outputs the requirements extracted from a job description.
func (p *Printer) PrintJobAnalysis(analysis *types.JobAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Required Skills", analysis.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Nice-to-haves", analysis.NiceToHaveSkills, 3)
	writeList(&sb, "Keywords", analysis.Keywords, maxItemsToShow)
	writeList(&sb, "Soft Skills", analysis.SoftSkills, 3)

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintMatchScore outputs the match score breakdown.
func (p *Printer) PrintMatchScore(score *types.MatchScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:              %3d%%\n", score.OverallMatch)
	fmt.Fprintf(&sb, "Skill overlap:        %3d%%\n", score.SkillOverlap)
	fmt.Fprintf(&sb, "Experience relevance: %3d%%\n", score.ExperienceRelevance)
	fmt.Fprintf(&sb, "Keyword alignment:    %3d%%\n\n", score.KeywordAlignment)
	writeList(&sb, "Strengths", score.Strengths, 3)
	writeList(&sb, "Gaps", score.Gaps, 3)

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintCustomizedResume outputs the revised summary and bullets with their reasons.
func (p *Printer) PrintCustomizedResume(resume *types.CustomizedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Summary: %s\n", resume.Summary.Text())
	if resume.Summary.Reason != "" {
		fmt.Fprintf(&sb, "  [%s]\n", resume.Summary.Reason)
	}

	revised := 0
	for _, exp := range resume.Experience {
		for _, b := range exp.Bullets {
			if b.Revised != "" && b.Revised != b.Original {
				revised++
			}
		}
	}
	fmt.Fprintf(&sb, "\nRewrote %d bullets across %d roles", revised, len(resume.Experience))

	p.printBox("CUSTOMIZED RESUME", sb.String())
}

// PrintATSAnalysis outputs the ATS score, risk and keyword coverage.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintATSAnalysis(analysis *types.ATSAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ATS Score: %d/100\n", analysis.ATSScore)
	fmt.Fprintf(&sb, "Risk:      %s\n\n", strings.ToUpper(string(analysis.RiskLevel)))
	writeList(&sb, "Matched", analysis.KeywordAnalysis.Matched, maxItemsToShow)
	writeList(&sb, "Missing", analysis.KeywordAnalysis.Missing, maxItemsToShow)

	if len(analysis.FormattingWarnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range analysis.FormattingWarnings {
			fmt.Fprintf(&sb, "⚠ %s\n", w)
		}
	}

	p.printBox("ATS ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}
