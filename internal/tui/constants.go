package tui

const (
	// Input Dimensions
	InputWidth     = 5
	InputCharLimit = 3

	// Layout Offsets and Padding
	ProgressBarWidthOffset = 4
	MaxProgressWidth       = 48
	DefaultPaddingX        = 1
	DefaultPaddingY        = 0
	PopupPaddingY          = 1
	PopupPaddingX          = 2
	PopupWidth             = 32

	// Channel Buffers - title updates from the notifier
	ActivityChannelBuffer = 16
)
