// Package client is a typed Go client for the classroom API. It plays the
// browser client's part: it keeps the session, validates forms before
// sending them and drives the quiz-taking engine.
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

const devBaseURL = "http://localhost:5000/api"

// DefaultMaxUploadBytes mirrors the server's default upload limit.
const DefaultMaxUploadBytes = 50 << 20

// BaseURL is the API root for an environment. Production talks to the same
// origin the client was served from.
func BaseURL(env, origin string) string {
	if env == config.EnvProduction {
		return strings.TrimRight(origin, "/") + "/api"
	}
	return devBaseURL
}

type Options struct {
	BaseURL        string
	Session        *Session
	Timeout        time.Duration
	MaxUploadBytes int64

	// OnUnauthorized runs after a 401 cleared the session, e.g. to show the
	// login screen. Password changes never trigger it.
	OnUnauthorized func()

	HTTPClient *http.Client
}

type Client struct {
	rc             *resty.Client
	session        *Session
	maxUploadBytes int64
	onUnauthorized func()
}

func New(opts Options) *Client {
	if opts.Session == nil {
		opts.Session = &Session{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = devBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	rc := resty.New()
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	c := &Client{
		rc:             rc,
		session:        opts.Session,
		maxUploadBytes: opts.MaxUploadBytes,
		onUnauthorized: opts.OnUnauthorized,
	}
	rc.OnBeforeRequest(c.authorize)
	rc.OnAfterResponse(c.interceptUnauthorized)
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	if token := c.session.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

type passwordChangeKey struct{}

// interceptUnauthorized ends the session on any 401 except a rejected
// password change, where 401 only means the current password was wrong.
func (c *Client) interceptUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	if ctx := resp.Request.Context(); ctx != nil && ctx.Value(passwordChangeKey{}) != nil {
		return nil
	}

	c.session.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx).SetError(&apperr.Body{})
}

// do sends req and decodes failures. result must already be set on req.
func do(req *resty.Request, method, url string) error {
	resp, err := req.Execute(method, url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return responseError(resp)
	}
	return nil
}
