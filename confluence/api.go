package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRequestTimeout bounds each individual HTTP round-trip.
const DefaultRequestTimeout = 30 * time.Second

// Config holds everything needed to talk to one Confluence site.  Exactly one way of
// authenticating is used, in this order of preference: SessionCookie, Username+Token, Token.
type Config struct {
	// Site root, e.g. https://wiki.example.com or https://ORG.atlassian.net/wiki.  REST endpoints
	// are resolved underneath it, and created page locations start with it.
	BaseURL string

	// Raw Cookie header value of an already-authenticated browser session.
	SessionCookie string

	Username string
	Token    string

	// Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

func NewAPI(cfg Config) (*API, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence site with --base-url")
	}

	u, err := url.ParseRequestURI(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("confluence: base URL must be http(s), got '%s'", cfg.BaseURL)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	a := &API{
		BaseURI:       u,
		Timeout:       timeout,
		sessionCookie: cfg.SessionCookie,
		username:      cfg.Username,
		token:         cfg.Token,
	}
	a.Client = &http.Client{Timeout: timeout}

	return a, nil
}

type API struct {
	// The Confluence site root; REST endpoints live below BaseURI/rest/api.
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Per-request deadline applied on top of the caller's context.
	Timeout time.Duration

	// Auth info
	sessionCookie   string
	username, token string
}

// HasCredential reports whether any authentication material was configured.
func (api *API) HasCredential() bool {
	return api.sessionCookie != "" || api.token != ""
}

// WebURL turns a relative web link from a response (`_links.webui`) into an absolute URL on the
// configured site.
func (api *API) WebURL(webui string) (string, error) {
	if webui == "" {
		return "", fmt.Errorf("confluence: response carried no web link")
	}
	if !strings.HasPrefix(webui, "/") {
		webui = "/" + webui
	}

	abs := strings.TrimRight(api.BaseURI.String(), "/") + webui
	u, err := url.Parse(abs)
	if err != nil {
		return "", fmt.Errorf("confluence: generated URL is bunk: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("confluence: generated URL is not absolute: %s", abs)
	}

	return u.String(), nil
}
