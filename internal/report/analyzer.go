// Package report turns a probed environment into PATH diagnostics.
package report

import (
	"fmt"

	"shellenv/internal/model"
	"shellenv/internal/pathutil"
)

// Analyze splits a PATH value into entries and flags duplicates and
// missing directories. dirExists is consulted once per entry.
func Analyze(pathValue string, f pathutil.Flavor, toolBin string, dirExists pathutil.FileChecker) []model.PathEntry {
	segs := pathutil.SplitList(pathValue, f)
	entries := make([]model.PathEntry, len(segs))

	// normalized value -> index of first occurrence
	seen := make(map[string]int)
	for i, seg := range segs {
		e := model.PathEntry{
			Index:     i,
			Value:     seg,
			Exists:    dirExists(seg),
			IsToolBin: toolBin != "" && f.SamePath(seg, toolBin),
		}

		key := f.Normalize(seg)
		if firstIdx, ok := seen[key]; ok {
			e.IsDuplicate = true
			e.DuplicateOf = firstIdx
			e.Remediation = fmt.Sprintf(
				"Duplicate of entry %d. Lookups never get this far, so it can be removed.",
				firstIdx+1,
			)
		} else {
			seen[key] = i
			switch {
			case e.IsToolBin && !e.Exists:
				e.Remediation = "Bundled tool directory. It is created when the first tool is installed."
			case !e.Exists:
				e.Remediation = fmt.Sprintf("Directory does not exist. Remove it from %s.", configHint(f))
			}
		}
		entries[i] = e
	}
	return entries
}

func configHint(f pathutil.Flavor) string {
	if f.IsWindows() {
		return "the user or system Path in Environment Variables"
	}
	return "your shell profile"
}

// Counts summarizes a list of entries.
type Counts struct {
	Total      int `json:"total" yaml:"total"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Missing    int `json:"missing" yaml:"missing"`
}

func Count(entries []model.PathEntry) Counts {
	c := Counts{Total: len(entries)}
	for _, e := range entries {
		if e.IsDuplicate {
			c.Duplicates++
		}
		if !e.Exists && !e.IsToolBin {
			c.Missing++
		}
	}
	return c
}
