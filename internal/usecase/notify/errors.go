package notify

import "errors"

// Sentinel errors for notifier resolution. They never reach the report
// caller; resolution falls back to the default notifier and logs them.
var (
	// ErrUnknownNotifier indicates the configured name has no registered factory.
	ErrUnknownNotifier = errors.New("unknown notifier")

	// ErrNilNotifier indicates a factory returned neither a notifier nor an error.
	ErrNilNotifier = errors.New("factory returned nil notifier")
)
