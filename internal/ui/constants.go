package ui

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconPaste    = "📋"
)

// Window sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 560
)

// MaxLogLines caps the log view; older lines are dropped
const MaxLogLines = 500
