package model

// Version is the shellenv release version.
const Version = "0.3.0"

// PathEntry represents a single directory in a resolved PATH.
type PathEntry struct {
	Index       int    `json:"index" yaml:"index"`                                 // Position in PATH (0 = highest priority)
	Value       string `json:"value" yaml:"value"`                                 // The directory path (e.g., /usr/bin)
	Exists      bool   `json:"exists" yaml:"exists"`                               // Directory exists on disk
	IsToolBin   bool   `json:"isToolBin,omitempty" yaml:"isToolBin,omitempty"`     // The synthesized ~/.cherrystudio/bin entry
	IsDuplicate bool   `json:"isDuplicate,omitempty" yaml:"isDuplicate,omitempty"` // True if this is a duplicate entry
	DuplicateOf int    `json:"duplicateOf,omitempty" yaml:"duplicateOf,omitempty"` // Index of the original entry if this is a duplicate
	Remediation string `json:"remediation,omitempty" yaml:"remediation,omitempty"` // Advice on how to fix/remove the entry
}
