package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultResendBaseURL = "https://api.resend.com/"
	resetSubject         = "إعادة تعيين كلمة المرور - مراسيل"
	resetValidFor        = "ساعة واحدة"
)

//go:embed templates/*.html
var templateFS embed.FS

var resetTemplate = template.Must(template.ParseFS(templateFS, "templates/password_reset.html"))

// ResendConfig configures the Resend email sink.
type ResendConfig struct {
	APIKey  string
	From    string
	BaseURL string
	// TestRecipient, when set, receives every mail instead of the real
	// recipient. The mail body then names the original address.
	TestRecipient string
	Timeout       time.Duration
}

// ResendNotifier sends reset mails through the Resend SDK, guarded by a
// circuit breaker so an outage fails fast instead of piling up workers.
type ResendNotifier struct {
	cfg     ResendConfig
	client  *resend.Client
	breaker *gobreaker.CircuitBreaker[string]
	log     zerolog.Logger
}

// apiError is a non-2xx answer from Resend together with its status code.
type apiError struct {
	status int
	err    error
}

func (e *apiError) Error() string {
	return fmt.Sprintf("resend: status %d: %v", e.status, e.err)
}

func (e *apiError) Unwrap() error { return e.err }

type statusKey struct{}

// statusRecorder stores the response status in the *int carried by the
// request context. The SDK folds most statuses into plain text errors.
type statusRecorder struct {
	next http.RoundTripper
}

func (t statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if p, ok := req.Context().Value(statusKey{}).(*int); ok {
			*p = resp.StatusCode
		}
	}
	return resp, err
}

func NewResendNotifier(cfg ResendConfig, log zerolog.Logger) *ResendNotifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultResendBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/"
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := resend.NewCustomClient(&http.Client{
		Timeout:   cfg.Timeout,
		Transport: statusRecorder{next: http.DefaultTransport},
	}, cfg.APIKey)
	if base, err := url.Parse(cfg.BaseURL); err == nil {
		client.BaseURL = base
	} else {
		log.Warn().Err(err).Str("base_url", cfg.BaseURL).Msg("invalid resend base url, using default")
	}

	settings := gobreaker.Settings{
		Name:        "resend",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors are our fault, not the provider's. Throttling is.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, resend.ErrRateLimit) {
				return false
			}
			var ae *apiError
			if errors.As(err, &ae) {
				return ae.status < http.StatusInternalServerError
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}

	return &ResendNotifier{
		cfg:     cfg,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		log:     log,
	}
}

func (n *ResendNotifier) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	recipient := email
	original := ""
	if n.cfg.TestRecipient != "" {
		recipient = n.cfg.TestRecipient
		original = email
	}

	var body bytes.Buffer
	err := resetTemplate.Execute(&body, struct {
		ResetLink         string
		OriginalRecipient string
		ValidFor          string
	}{resetLink, original, resetValidFor})
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	id, err := n.breaker.Execute(func() (string, error) {
		return n.send(ctx, &resend.SendEmailRequest{
			From:    n.cfg.From,
			To:      []string{recipient},
			Subject: resetSubject,
			Html:    body.String(),
		})
	})
	if err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	ev := n.log.Info().Str("email_id", id).Str("recipient", recipient)
	if original != "" {
		ev = ev.Str("original_recipient", original)
	}
	ev.Msg("password reset email sent")
	return nil
}

func (n *ResendNotifier) send(ctx context.Context, req *resend.SendEmailRequest) (string, error) {
	status := 0
	sent, err := n.client.Emails.SendWithContext(context.WithValue(ctx, statusKey{}, &status), req)
	if err != nil {
		if status != 0 {
			return "", &apiError{status: status, err: err}
		}
		return "", err
	}
	return sent.Id, nil
}
