package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ivuturnos/internal/logger"
)

const (
	loginPath  = "/mbweb/j_security_check"
	dutiesPath = "/mbweb/main/ivu/desktop/duties"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/118.0.0.0 Safari/537.36"

	requestTimeout = 30 * time.Second
	maxRetries     = 3
)

// Client is a session-authenticated HTTP client for the portal's AJAX
// endpoints.
type Client struct {
	http    *http.Client
	baseURL string

	// baseDir is the portal directory the duties view resolves to,
	// e.g. "/mbweb/main/ivu/desktop/". Set by FetchMonth.
	baseDir string
}

// New creates a Client for the given portal root.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Login establishes a portal session through the standard form POST. The
// landing page is fetched first so the container issues the session cookie
// the login binds to, then the duties view is probed for an authenticated
// session marker.
func (c *Client) Login(ctx context.Context, user, pass string) error {
	if _, _, err := c.get(ctx, c.baseURL+"/mbweb/", false); err != nil {
		return fmt.Errorf("fetching login landing page: %w", err)
	}

	form := url.Values{
		"j_username": {user},
		"j_password": {pass},
	}
	if err := c.postForm(ctx, c.baseURL+loginPath, form); err != nil {
		return fmt.Errorf("posting credentials: %w", err)
	}

	body, _, err := c.get(ctx, c.baseURL+dutiesPath, false)
	if err != nil {
		return fmt.Errorf("verifying session: %w", err)
	}
	text := string(body)
	if !strings.Contains(text, "Cerrar sesión") && !strings.Contains(strings.ToLower(text), "logout") {
		return fmt.Errorf("login rejected: duties page shows no active session")
	}

	logger.Info("portal login ok", logger.Fields{"base_url": c.baseURL})
	return nil
}

// FetchMonth resolves the portal's base directory from the duties view and
// downloads the month-table fragment the portal injects into #tableview.
func (c *Client) FetchMonth(ctx context.Context) (string, error) {
	_, finalURL, err := c.get(ctx, c.baseURL+dutiesPath, false)
	if err != nil {
		return "", fmt.Errorf("loading duties view: %w", err)
	}
	// Strip the trailing "duties" component to get the view directory.
	c.baseDir = path.Dir(finalURL.Path) + "/"

	body, _, err := c.get(ctx, c.baseURL+c.baseDir+"_-duty-table", true)
	if err != nil {
		return "", fmt.Errorf("loading month table: %w", err)
	}
	return string(body), nil
}

// FetchDay downloads one day's duty-detail fragment.
func (c *Client) FetchDay(ctx context.Context, isoDate, employeeID string) (string, error) {
	if c.baseDir == "" {
		return "", fmt.Errorf("portal base directory not resolved; call FetchMonth first")
	}

	q := url.Values{
		"beginDate":    {isoDate},
		"showUserInfo": {"true"},
	}
	if employeeID != "" {
		q.Set("allocatedEmployeeId", employeeID)
	}

	body, _, err := c.get(ctx, c.baseURL+c.baseDir+"_-duty-details-day?"+q.Encode(), true)
	if err != nil {
		return "", fmt.Errorf("loading day %s: %w", isoDate, err)
	}
	return string(body), nil
}

// get performs a GET with retry on 5xx and transport errors, returning the
// body and the final URL after redirects.
func (c *Client) get(ctx context.Context, rawURL string, ajax bool) ([]byte, *url.URL, error) {
	var body []byte
	var finalURL *url.URL

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		c.decorate(req, ajax)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("status %d from %s", resp.StatusCode, rawURL)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		finalURL = resp.Request.URL
		return nil
	}

	if err := c.retry(ctx, op); err != nil {
		return nil, nil, err
	}
	return body, finalURL, nil
}

// postForm performs a form POST with the same retry policy as get.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL,
			strings.NewReader(form.Encode()))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c.decorate(req, false)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 500 {
			return fmt.Errorf("status %d from %s", resp.StatusCode, rawURL)
		}
		return nil
	}
	return c.retry(ctx, op)
}

func (c *Client) retry(ctx context.Context, op backoff.Operation) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(op, policy)
}

func (c *Client) decorate(req *http.Request, ajax bool) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", "text/html, */*; q=0.01")
		req.Header.Set("Referer", c.baseURL+dutiesPath)
	}
}
