package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"studyhub/internal/resilience/circuitbreaker"
)

const (
	// DefaultWebhookTimeout bounds a single webhook delivery.
	DefaultWebhookTimeout = 5 * time.Second
	// DefaultWebhookUsername is the display name posted with each embed.
	DefaultWebhookUsername = "StudyHub Moderation"

	webhookUserAgent = "studyhub-notifier/1"

	// Chat embed limits.
	maxTitleLength       = 256
	maxDescriptionLength = 4096

	// maxLoggedResponseBody caps how much of a failed response is logged.
	maxLoggedResponseBody = 2 << 10

	reportRedColor = 0xE74C3C
)

// Fallbacks for missing or empty detail values.
const (
	defaultLink         = "#"
	defaultReporterName = "Unknown user"
	defaultCategory     = "Unspecified"
	defaultReason       = "No details provided"
	defaultTitle        = "Untitled"
	defaultContentType  = "content"
	defaultID           = "N/A"
)

// WebhookConfig contains configuration for webhook notifications.
type WebhookConfig struct {
	// URL is the webhook endpoint. It usually embeds its own secret token.
	URL string

	// Timeout bounds each delivery. Zero means DefaultWebhookTimeout.
	Timeout time.Duration

	// Username overrides the poster name. Empty means DefaultWebhookUsername.
	Username string

	AvatarURL string
}

// StatusError is returned for a non-2xx webhook response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.StatusCode)
}

// WebhookNotifier posts report notifications as a chat embed.
type WebhookNotifier struct {
	config      WebhookConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	breaker     *circuitbreaker.CircuitBreaker
	logger      *slog.Logger
	now         func() time.Time
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient sets the HTTP client used for deliveries.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(n *WebhookNotifier) { n.httpClient = c }
}

// WithRateLimiter shares a limiter between notifiers.
func WithRateLimiter(l *RateLimiter) WebhookOption {
	return func(n *WebhookNotifier) { n.rateLimiter = l }
}

// WithCircuitBreaker shares a breaker between notifiers.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) WebhookOption {
	return func(n *WebhookNotifier) { n.breaker = cb }
}

func WithWebhookLogger(l *slog.Logger) WebhookOption {
	return func(n *WebhookNotifier) { n.logger = l }
}

// WithWebhookClock overrides the clock used for embed timestamps.
func WithWebhookClock(now func() time.Time) WebhookOption {
	return func(n *WebhookNotifier) { n.now = now }
}

// NewWebhookNotifier creates a WebhookNotifier. Without options it has its
// own HTTP client and no rate limiter or breaker.
func NewWebhookNotifier(config WebhookConfig, opts ...WebhookOption) *WebhookNotifier {
	if config.Timeout <= 0 {
		config.Timeout = DefaultWebhookTimeout
	}
	if config.Username == "" {
		config.Username = DefaultWebhookUsername
	}

	n := &WebhookNotifier{
		config: config,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.httpClient == nil {
		n.httpClient = &http.Client{Timeout: config.Timeout}
	}
	return n
}

func (n *WebhookNotifier) Name() string { return NameWebhook }

// WebhookPayload represents the JSON payload sent to the webhook.
type WebhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []Embed `json:"embeds"`
}

// Embed represents one rich message block.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields"`
	Timestamp   string       `json:"timestamp"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func valueOr(d Details, key, fallback string) string {
	if v := d.String(key); v != "" {
		return v
	}
	return fallback
}

// buildPayload creates the webhook body from the message and details,
// substituting defaults for anything missing.
func (n *WebhookNotifier) buildPayload(message string, details Details) WebhookPayload {
	contentLink := valueOr(details, KeyContentLink, defaultLink)
	reportLink := valueOr(details, KeyReportLink, defaultLink)

	description := fmt.Sprintf(
		"Reporter: %s\nContent: %s (%s)\nCategory: %s\nDetails: %s",
		valueOr(details, KeyReporterName, defaultReporterName),
		valueOr(details, KeyContentTitle, defaultTitle),
		valueOr(details, KeyContentType, defaultContentType),
		valueOr(details, KeyReasonCategory, defaultCategory),
		valueOr(details, KeyReasonDetails, defaultReason),
	)

	embed := Embed{
		Title:       truncateRunes("Content report: "+message, maxTitleLength, truncationSuffix),
		Description: truncateRunes(description, maxDescriptionLength, truncationSuffix),
		URL:         contentLink,
		Color:       reportRedColor,
		Fields: []EmbedField{
			{Name: "Report ID", Value: valueOr(details, KeyReportID, defaultID), Inline: true},
			{Name: "Content ID", Value: valueOr(details, KeyContentID, defaultID), Inline: true},
			{Name: "Review", Value: reportLink},
		},
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}

	return WebhookPayload{
		Username:  n.config.Username,
		AvatarURL: n.config.AvatarURL,
		Embeds:    []Embed{embed},
	}
}

// Notify posts one embed. It makes a single attempt and never retries.
func (n *WebhookNotifier) Notify(ctx context.Context, message string, details Details) bool {
	if n.config.URL == "" {
		n.logger.WarnContext(ctx, "webhook notifier has no URL configured, skipping delivery")
		return false
	}

	deliveryID := uuid.New().String()
	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	if n.rateLimiter != nil {
		if err := n.rateLimiter.Wait(ctx); err != nil {
			n.logger.WarnContext(ctx, "webhook rate limit wait failed",
				slog.String("delivery_id", deliveryID),
				slog.Any("error", err))
			return false
		}
	}

	body, err := json.Marshal(n.buildPayload(message, details))
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal webhook payload",
			slog.String("delivery_id", deliveryID),
			slog.Any("error", err))
		return false
	}

	send := func() (interface{}, error) {
		return nil, n.post(ctx, body)
	}
	if n.breaker != nil {
		_, err = n.breaker.Execute(send)
	} else {
		_, err = send()
	}

	var statusErr *StatusError
	switch {
	case err == nil:
		n.logger.InfoContext(ctx, "webhook notification delivered",
			slog.String("delivery_id", deliveryID))
		return true
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		n.logger.WarnContext(ctx, "webhook circuit open, skipping delivery",
			slog.String("delivery_id", deliveryID),
			slog.Any("error", err))
	case errors.As(err, &statusErr):
		n.logger.ErrorContext(ctx, "webhook notification rejected",
			slog.String("delivery_id", deliveryID),
			slog.Int("status_code", statusErr.StatusCode),
			slog.String("response_body", statusErr.Body))
	default:
		n.logger.ErrorContext(ctx, "webhook request failed",
			slog.String("delivery_id", deliveryID),
			slog.Any("error", err))
	}
	return false
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", stripURL(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", stripURL(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedResponseBody+1))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       truncateBytes(raw, maxLoggedResponseBody),
	}
}

// stripURL drops the request URL from net/http errors. Webhook URLs embed
// their access token in the path.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
