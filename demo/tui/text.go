package tui

// UI Text Constants
const (
	TextStartInstruction = "Press 'r' to submit the script for rendering"

	TextFooterRunning = "Press 'q' to detach (the render keeps running on the server)"
	TextFooterDone    = "Press 'q' or Ctrl+C to exit"
)
