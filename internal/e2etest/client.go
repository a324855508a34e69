package e2etest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"crossexam/internal/errors"

	"github.com/PuerkitoBio/goquery"
)

// Client drives the web application the way a browser would: it keeps cookies,
// scrapes CSRF tokens out of forms, and parses responses with goquery.
type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a cookie-aware HTTP client for the server at url.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = http.NewRequest(method, c.url+urlPath, body); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req.WithContext(ctx), nil
}

// ExtractCSRFToken digs the CSRF token out of the form with the given action.
func ExtractCSRFToken(doc *goquery.Document, formActionURLPath string) (string, error) {
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector)
	csrfToken, ok := form.Find("input[name=csrf_token]").Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form", slog.String("form", formSelector))
	}
	return csrfToken, nil
}

// PostForm posts form fields to urlPath without scraping a page first. Callers
// supply their own CSRF token through fields and any extra headers, which
// makes it possible to exercise htmx requests and CSRF failures directly.
func (c *Client) PostForm(
	ctx context.Context,
	urlPath string,
	fields neturl.Values,
	headers http.Header,
) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// SubmitForm submits the form with action formActionURLPath found on the page
// at formURLPath, merging fields into the CSRF token, and returns the response
// document after any redirects.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	fields neturl.Values,
) (*goquery.Document, error) {
	var (
		doc *goquery.Document
		err error
	)
	if doc, err = c.GetDoc(ctx, formURLPath); err != nil {
		return nil, errors.Wrap(err, "get document")
	}

	var csrfToken string
	if csrfToken, err = ExtractCSRFToken(doc, formActionURLPath); err != nil {
		return nil, errors.Wrap(err, "extract CSRF token")
	}

	formData := neturl.Values{}
	formData.Add("csrf_token", csrfToken)
	for key, values := range fields {
		for _, value := range values {
			formData.Add(key, value)
		}
	}
	data := strings.NewReader(formData.Encode())

	var req *http.Request
	if req, err = c.newRequestWithContext(ctx, http.MethodPost, formActionURLPath, data); err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}

	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// StartInterview submits the setup form with the given difficulty and returns
// the interview screen.
func (c *Client) StartInterview(ctx context.Context, difficulty string) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/", "/interview/start", neturl.Values{"difficulty": {difficulty}})
	if err != nil {
		return nil, errors.Wrap(err, "submit start form", slog.String("difficulty", difficulty))
	}
	return doc, nil
}

// AskQuestion submits one question to the witness and returns the refreshed
// screen. The reserved "end interview" utterance concludes the session.
func (c *Client) AskQuestion(ctx context.Context, question string) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/", "/interview/turn", neturl.Values{"question": {question}})
	if err != nil {
		return nil, errors.Wrap(err, "submit question form")
	}
	return doc, nil
}

// Conclude submits the conclude form and returns the report screen.
func (c *Client) Conclude(ctx context.Context) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/", "/interview/conclude", nil)
	if err != nil {
		return nil, errors.Wrap(err, "submit conclude form")
	}
	return doc, nil
}

// Reset discards the session and returns the setup screen.
func (c *Client) Reset(ctx context.Context) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/", "/interview/reset", nil)
	if err != nil {
		return nil, errors.Wrap(err, "submit reset form")
	}
	return doc, nil
}
