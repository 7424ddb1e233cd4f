package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// FindContent searches content by title within a space.
func (api *API) FindContent(ctx context.Context, opts ContentQuery) (*ContentList, error) {
	ep, err := api.getContentEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get content endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var list ContentList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &list, nil
}

// ChildPages lists the direct child pages of opts.ParentID.
func (api *API) ChildPages(ctx context.Context, opts ChildPagesQuery) (*ContentList, error) {
	ep, err := api.getChildPagesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get child pages endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var list ContentList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &list, nil
}

// CreateContent creates a page.  It is not idempotent: Confluence happily creates a second page
// for a second identical request.
func (api *API) CreateContent(ctx context.Context, content NewContent) (*Content, error) {
	ep, err := api.createContentEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get create content endpoint: %w", err)
	}

	payload, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode content: %w", err)
	}

	body, err := api.request(ctx, http.MethodPost, ep, payload)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var created Content
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &created, nil
}

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*SpaceList, error) {
	ep, err := api.getSpacesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var list SpaceList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &list, nil
}

func (api *API) GetLongTask(ctx context.Context, opts LongTaskQuery) (*LongTask, error) {
	ep, err := api.getLongTaskEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get long task endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var task LongTask
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &task, nil
}

// CurrentUser return current user information
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get current user endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &user, nil
}

// request performs one round-trip, bounded by api.Timeout, and returns the body of a successful
// response.  Anything else becomes a *StatusError.
func (api *API) request(ctx context.Context, method string, url *url.URL, payload []byte) ([]byte, error) {
	if api.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.Timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		// XSRF check is skipped for REST writes carrying this header.
		req.Header.Set("X-Atlassian-Token", "no-check")
	}

	switch {
	case api.sessionCookie != "":
		req.Header.Set("Cookie", api.sessionCookie)
	case api.username != "" && api.token != "":
		req.SetBasicAuth(api.username, api.token)
	case api.token != "":
		req.Header.Set("Authorization", "Bearer "+api.token)
	}

	client := api.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		response.Body.Close()
		return nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return body, nil
	}

	return nil, &StatusError{
		StatusCode: response.StatusCode,
		Status:     response.Status,
		Body:       body,
		URL:        url.String(),
	}
}
