package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/config"
	"studyhub/internal/infra/notifier"
)

func TestRegistry_LookupNormalizesName(t *testing.T) {
	r := NewRegistry()
	r.Register(" Custom ", func(config.NotifyConfig) (notifier.Notifier, error) {
		return notifier.NewNoOpNotifier(), nil
	})

	for _, name := range []string{"custom", "CUSTOM", "  custom\n"} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "lookup %q", name)
	}
	_, ok := r.Lookup("other")
	assert.False(t, ok)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("x", func(config.NotifyConfig) (notifier.Notifier, error) { return notifier.NewNoOpNotifier(), nil })
	r.Register("x", func(config.NotifyConfig) (notifier.Notifier, error) { return nil, assert.AnError })

	f, ok := r.Lookup("x")
	require.True(t, ok)
	_, err := f(config.NotifyConfig{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"x"}, r.Names())
}

func TestDefaultRegistry_Names(t *testing.T) {
	r := DefaultRegistry(Dependencies{})

	assert.Equal(t, []string{"log", "noop", "webhook"}, r.Names())
}

func TestDefaultRegistry_WebhookRejectsNegativeTimeout(t *testing.T) {
	f, ok := DefaultRegistry(Dependencies{}).Lookup("webhook")
	require.True(t, ok)

	_, err := f(config.NotifyConfig{WebhookTimeout: -1})

	assert.Error(t, err)
}

func TestDefaultRegistry_LogUsesDefaultPathWhenEmpty(t *testing.T) {
	f, ok := DefaultRegistry(Dependencies{}).Lookup("log")
	require.True(t, ok)

	n, err := f(config.NotifyConfig{})

	require.NoError(t, err)
	assert.Equal(t, config.DefaultNotifyLogPath, n.(*notifier.LogNotifier).Path())
}

func TestNewWebhookHTTPClient_AllowsMaxTimeout(t *testing.T) {
	client := NewWebhookHTTPClient()

	assert.Equal(t, config.MaxWebhookTimeout, client.Timeout)
	assert.GreaterOrEqual(t, client.Timeout, config.DefaultWebhookTimeout)
}
