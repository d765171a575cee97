// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/types"
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes with a trailing ellipsis
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func candidateLabel(c types.Candidate) string {
	if c.Name != "" {
		return fmt.Sprintf("%s (%s)", c.Name, c.ID)
	}
	return c.ID
}

// PrintRankResult outputs the top ranked candidates with their score components.
func (p *Printer) PrintRankResult(result *types.RankResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Snapshot: %s\n", result.SnapshotVersion))
	sb.WriteString(fmt.Sprintf("Considered: %d, returned: %d\n", result.Considered, len(result.Candidates)))

	count := min(len(result.Candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		rc := result.Candidates[i]
		b := rc.Breakdown
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("#%d  %s\n", rc.Rank, candidateLabel(rc.Candidate)))
		sb.WriteString(fmt.Sprintf("    Final: %.2f  (sem %.2f, overlap %.2f, exp %.2f)\n",
			b.Final, b.Semantic, b.SkillOverlap, b.ExperienceMatch))
		sb.WriteString(fmt.Sprintf("    Retrieval: %s, hybrid %.2f\n", b.Retrieval.Method, b.Retrieval.Hybrid))
		if len(b.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Matched: %s\n", strings.Join(b.MatchedSkills, ", ")))
		}
		if len(b.MissingSkills) > 0 {
			names := make([]string, len(b.MissingSkills))
			for j, m := range b.MissingSkills {
				names[j] = m.Skill
			}
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", strings.Join(names, ", ")))
		}
		if b.LowConfidence {
			sb.WriteString(fmt.Sprintf("    ⚠ low confidence (%d data gaps)\n", len(b.DataQuality)))
		}
		if rc.Risk != nil {
			sb.WriteString(fmt.Sprintf("    Risk: %s (%.2f)\n", rc.Risk.Level, rc.Risk.Overall))
		}
	}

	if len(result.Candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(result.Candidates)-maxItemsToShow))
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLearnability outputs the learnable missing skills of one candidate.
func (p *Printer) PrintLearnability(candidateID string, skills []types.LearnableSkill) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n\n", candidateID))
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := skills[i]
		sb.WriteString(fmt.Sprintf("• %s  %.2f  (%d-%d weeks)\n", s.Skill, s.Learnability, s.RampWeeks.MinWeeks, s.RampWeeks.MaxWeeks))
		if len(s.RelatedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("  via %s\n", strings.Join(s.RelatedSkills, ", ")))
		}
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(skills)-maxItemsToShow))
	}

	p.printBox("LEARNABLE SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRejections outputs why candidates fell below the score threshold.
func (p *Printer) PrintRejections(rejections []types.Rejection) {
	if len(rejections) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(rejections), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := rejections[i]
		sb.WriteString(fmt.Sprintf("%s  final %.2f < %.2f, reconsider %.2f\n", r.CandidateID, r.Final, r.Threshold, r.Reconsideration.Score))
		for _, reason := range r.Reasons {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", reason.Severity, reason.Description))
		}
		for _, path := range r.LearningPaths {
			sb.WriteString(fmt.Sprintf("  learn %s (%.2f, %d-%d weeks)\n", path.Skill, path.Learnability, path.RampWeeks.MinWeeks, path.RampWeeks.MaxWeeks))
		}
		sb.WriteString(fmt.Sprintf("  %s\n", r.Reconsideration.Recommendation))
	}
	if len(rejections) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(rejections)-maxItemsToShow))
	}

	p.printBox("BELOW THRESHOLD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRiskProfile outputs the four risk factors of one candidate.
func (p *Printer) PrintRiskProfile(candidateID string, profile *types.RiskProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", candidateID))
	sb.WriteString(fmt.Sprintf("Overall:   %.2f (%s), confidence %.2f\n\n", profile.Overall, profile.Level, profile.Confidence))
	for _, f := range profile.Factors {
		sb.WriteString(fmt.Sprintf("%-14s %.2f %s\n", f.Dimension, f.Score, f.Level))
		sb.WriteString(fmt.Sprintf("  %s\n", f.Reason))
	}
	sb.WriteString("\n")
	sb.WriteString(profile.Recommendation)

	p.printBox("RISK PROFILE", sb.String())
}

// PrintGraphStats outputs the size of a skill graph.
func (p *Printer) PrintGraphStats(stats types.GraphStats) {
	var sb strings.Builder
	if stats.Version != "" {
		sb.WriteString(fmt.Sprintf("Version: %s\n", stats.Version))
	}
	sb.WriteString(fmt.Sprintf("Skills:  %d\n", stats.SkillCount))
	sb.WriteString(fmt.Sprintf("Edges:   %d\n", stats.EdgeCount))
	sb.WriteString(fmt.Sprintf("Resumes: %d", stats.ResumeCount))

	p.printBox("SKILL GRAPH", sb.String())
}

// PrintRelatedSkills outputs the neighbours of a skill.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRelatedSkills(skill string, related []graph.Related) {
	if len(related) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip("No skills related to "+skill, boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, r := range related {
		sb.WriteString(fmt.Sprintf("%2d. %-30s %.2f", i+1, r.Skill, r.Adjacency))
		if i < len(related)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SKILLS RELATED TO "+strings.ToUpper(skill), sb.String())
}
