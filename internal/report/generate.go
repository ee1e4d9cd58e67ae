package report

import (
	"fmt"
	"strings"

	"shellenv/internal/model"
)

// Icon returns the status icon shown next to an entry.
func Icon(e model.PathEntry) string {
	switch {
	case e.IsDuplicate:
		return model.IconDuplicate
	case e.IsToolBin:
		return model.IconToolBin
	case !e.Exists:
		return model.IconMissing
	}
	return model.IconOK
}

// Label is the short status suffix for an entry, or "".
func Label(e model.PathEntry, total int) string {
	var tags []string
	switch {
	case e.IsDuplicate:
		tags = append(tags, fmt.Sprintf("duplicate of %d", e.DuplicateOf+1))
	case e.IsToolBin:
		tags = append(tags, "tool bin")
	case !e.Exists:
		tags = append(tags, "missing")
	}
	if total > 1 {
		if e.Index == 0 {
			tags = append(tags, "highest priority "+model.IconPriorityHigh)
		} else if e.Index == total-1 {
			tags = append(tags, "lowest priority "+model.IconPriorityLow)
		}
	}
	if len(tags) == 0 {
		return ""
	}
	return "(" + strings.Join(tags, ", ") + ")"
}

// GenerateReport renders a plain-text diagnostic report.
func GenerateReport(s Snapshot, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "shellenv %s report\n", s.Version)
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Platform:  %s\n", s.Flavor)
	if s.Shell != "" {
		fmt.Fprintf(&b, "Shell:     %s\n", s.Shell)
	}
	fmt.Fprintf(&b, "PATH key:  %s\n", s.PathKey)
	fmt.Fprintf(&b, "Tool bin:  %s\n", s.ToolBin)
	b.WriteString("Git Bash:  " + gitBashLine(s) + "\n\n")

	fmt.Fprintf(&b, "PATH (%d entries, %d duplicates, %d missing)\n",
		s.Counts.Total, s.Counts.Duplicates, s.Counts.Missing)
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, e := range s.Entries {
		line := fmt.Sprintf("%3d. %s %s", e.Index+1, Icon(e), e.Value)
		if l := Label(e, len(s.Entries)); l != "" {
			line += "  " + l
		}
		b.WriteString(line + "\n")
	}

	var advice []string
	for _, e := range s.Entries {
		if e.Remediation != "" {
			advice = append(advice, fmt.Sprintf("  %3d. %s", e.Index+1, e.Remediation))
		}
	}
	if len(advice) > 0 {
		b.WriteString("\nDiagnostics\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		b.WriteString(strings.Join(advice, "\n") + "\n")
	}

	if verbose && len(s.Env) > 0 {
		b.WriteString("\nEnvironment\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		for _, kv := range s.Env.Environ() {
			b.WriteString("  " + kv + "\n")
		}
	}
	return b.String()
}

func gitBashLine(s Snapshot) string {
	switch {
	case s.Flavor != "windows":
		return "not applicable"
	case !s.GitBash.Found():
		return "not found"
	}
	return fmt.Sprintf("%s (%s)", s.GitBash.Path, s.GitBash.Source)
}
