package notifier

import "context"

// NoOpNotifier is a no-operation implementation of the Notifier interface.
// It is selected with NOTIFIER=noop when moderation alerts are disabled.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) Name() string { return NameNoop }

// Notify reports success without doing anything.
func (n *NoOpNotifier) Notify(ctx context.Context, message string, details Details) bool {
	return true
}
