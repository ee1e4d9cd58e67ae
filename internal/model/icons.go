package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconPriorityHigh = "¹" // highest priority
	IconPriorityLow  = "¶" // lowest priority
	IconDuplicate    = "≈" // Almost equal (duplicate)
	IconMissing      = "✗" // Thin X (missing)
	IconOK           = " " // Space (OK - no icon to reduce noise)
	IconToolBin      = "◆" // Diamond for the synthesized tool-bin dir
)
