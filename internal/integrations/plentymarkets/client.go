// internal/integrations/plentymarkets/client.go
package plentymarkets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/bartek5186/plentyexport/internal/integrations"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html/charset"
)

const userAgent = "PlentyExport 1.0v"

type Client struct {
	log  zerolog.Logger
	cfg  conf.SourceConfig
	base *url.URL
	http *http.Client

	mu    sync.RWMutex
	token string
}

func New(log zerolog.Logger, cfg conf.SourceConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || base.Host == "" {
		return nil, errs.Wrap(fmt.Errorf("invalid url %q", cfg.URL), errs.ErrConfiguration, "plentymarkets")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		log:  log,
		cfg:  cfg,
		base: base,
		http: newHTTPClient(cfg.Retry, timeout, log),
	}, nil
}

// newHTTPClient – timeout liczony osobno dla każdej próby (w transporcie),
// całe żądanie z ponowieniami ogranicza tylko ctx
func newHTTPClient(retry conf.RetryConfig, attemptTimeout time.Duration, log zerolog.Logger) *http.Client {
	return &http.Client{
		Transport: newRetryTransport(http.DefaultTransport, retry, attemptTimeout, log),
	}
}

func (c *Client) Name() string { return "plentymarkets" }

// Login pobiera token (POST /rest/login). Każdy błąd jest fatalny.
func (c *Client) Login(ctx context.Context) error {
	payload, _ := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/rest/login", nil), bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, errs.ErrAuthentication, "create login request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	body, status, err := c.do(req)
	if err != nil {
		return errs.Wrap(err, errs.ErrAuthentication, "login")
	}
	if status != http.StatusOK {
		return errs.Wrap(fmt.Errorf("http %d", status), errs.ErrAuthentication, "login")
	}

	res := gjson.ParseBytes(body)
	token := res.Get("accessToken").String()
	if token == "" {
		token = res.Get("access_token").String()
	}
	if token == "" {
		return errs.Wrap(fmt.Errorf("no access token in response"), errs.ErrAuthentication, "login")
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	c.log.Info().Str("user", c.cfg.Username).Msg("zalogowano")
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return gjson.Result{}, errs.Wrap(err, errs.ErrHTTPRequest, path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	body, status, err := c.do(req)
	if err != nil {
		return gjson.Result{}, errs.Wrap(err, errs.ErrHTTPRequest, path)
	}
	switch {
	case status == http.StatusUnauthorized:
		return gjson.Result{}, errs.Wrap(fmt.Errorf("http %d", status), errs.ErrAuthentication, path)
	case status >= 300:
		return gjson.Result{}, errs.Wrap(fmt.Errorf("http %d: %s", status, snippet(body)), errs.ErrHTTPResponse, path)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errs.Wrap(fmt.Errorf("invalid JSON: %s", snippet(body)), errs.ErrHTTPResponse, path)
	}
	return gjson.ParseBytes(body), nil
}

// Paginate – strony page/itemsPerPage aż do isLastPage albo pustych entries.
// Odpowiedź-tablica to jedna strona.
func (c *Client) Paginate(ctx context.Context, path string, query url.Values, fn func(page gjson.Result) error) error {
	perPage := c.cfg.ItemsPerPage
	if perPage <= 0 {
		perPage = 100
	}

	for page := 1; ; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("itemsPerPage", strconv.Itoa(perPage))

		res, err := c.Get(ctx, path, q)
		if err != nil {
			return err
		}
		if res.IsArray() {
			return fn(res)
		}

		entries := res.Get("entries")
		if !entries.IsArray() {
			return errs.Wrap(fmt.Errorf("page %d has no entries", page), errs.ErrPagination, path)
		}
		if len(entries.Array()) == 0 {
			return nil
		}
		if err := fn(res); err != nil {
			return err
		}

		if res.Get("isLastPage").Bool() {
			return nil
		}
		if last := res.Get("lastPageNumber"); last.Exists() && int64(page) >= last.Int() {
			return nil
		}
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()
	return u.String()
}

// do wykonuje żądanie i zwraca body zdekodowane do UTF-8
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode body: %w", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "…"
	}
	return string(b)
}

func factory(log zerolog.Logger, cfg conf.SourceConfig) (integrations.Source, error) {
	return New(log, cfg)
}

func init() {
	integrations.Register("plentymarkets", factory)
}
