package plentymarkets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/rs/zerolog"
)

// maksymalne opóźnienie pojedynczej próby
const maxBackoff = 30 * time.Second

// retryTransport ponawia idempotentne żądania (timeouty, 429, 5xx) z pełnym jitterem
type retryTransport struct {
	base    http.RoundTripper
	cfg     conf.RetryConfig
	timeout time.Duration // na jedną próbę, 0 = bez limitu
	log     zerolog.Logger

	mu     sync.Mutex
	jitter *rand.Rand
}

func newRetryTransport(base http.RoundTripper, cfg conf.RetryConfig, timeout time.Duration, log zerolog.Logger) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:    base,
		cfg:     cfg,
		timeout: timeout,
		log:     log,
		jitter:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.cfg.MaxAttempts <= 1 {
		return t.attempt(req)
	}

	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
	default:
		// POST (login) leci raz
		return t.attempt(req)
	}

	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt < t.cfg.MaxAttempts; attempt++ {
		resp, err := t.attempt(cloneRequest(req))
		if err != nil {
			if !t.retryableErr(req, err) {
				closeBody(lastResp)
				return nil, err
			}
			lastErr = err
		} else {
			if !slices.Contains(t.cfg.RetryableStatuses, resp.StatusCode) {
				closeBody(lastResp)
				return resp, nil
			}
			closeBody(lastResp)
			lastResp = resp
		}

		if attempt == t.cfg.MaxAttempts-1 {
			break
		}

		delay := t.backoff(attempt)
		t.log.Debug().
			Str("url", req.URL.Path).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("retry")

		select {
		case <-req.Context().Done():
			closeBody(lastResp)
			return nil, req.Context().Err()
		case <-time.After(delay):
		}
	}

	if lastResp != nil {
		// ostatnia odpowiedź, nawet z błędnym statusem
		return lastResp, nil
	}
	return nil, fmt.Errorf("retry failed after %d attempts: %w", t.cfg.MaxAttempts, lastErr)
}

// attempt – jedna próba z własnym limitem czasu; limit trwa do zamknięcia body
func (t *retryTransport) attempt(req *http.Request) (*http.Response, error) {
	if t.timeout <= 0 {
		return t.base.RoundTrip(req)
	}
	ctx, cancel := context.WithTimeout(req.Context(), t.timeout)
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// retryableErr: timeout sieci albo limit próby (ale nie koniec ctx wywołującego)
func (t *retryTransport) retryableErr(req *http.Request, err error) bool {
	if req.Context().Err() != nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// backoff – full jitter: losowo z [0, initial*mult^attempt], max 30s
func (t *retryTransport) backoff(attempt int) time.Duration {
	base := time.Duration(t.cfg.InitialBackoff * float64(time.Second))
	maxDelay := time.Duration(float64(base) * math.Pow(t.cfg.BackoffMultiplier, float64(attempt)))
	if maxDelay > maxBackoff {
		maxDelay = maxBackoff
	}
	t.mu.Lock()
	f := t.jitter.Float64()
	t.mu.Unlock()
	return time.Duration(f * float64(maxDelay))
}

func cloneRequest(r *http.Request) *http.Request {
	r2 := r.Clone(r.Context())
	if r.Body != nil && r.Body != http.NoBody {
		buf, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(buf))
		r2.Body = io.NopCloser(bytes.NewReader(buf))
	}
	return r2
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
