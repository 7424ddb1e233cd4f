package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getContentEndpoint returns the (v1) API endpoint to search content by title/space:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
func (a *API) getContentEndpoint(opts ContentQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("content")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getChildPagesEndpoint returns the (v1) API endpoint to list the direct child pages of a page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-child-and-descendants/#api-wiki-rest-api-content-id-child-type-get
func (a *API) getChildPagesEndpoint(opts ChildPagesQuery) (*url.URL, error) {
	if opts.ParentID == "" {
		return nil, fmt.Errorf("confluence: please provide parent ID to list child pages")
	}

	ep, err := a.resolveEndpoint("content", opts.ParentID, "child", "page")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// createContentEndpoint returns the (v1) API endpoint to create a page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-post
func (a *API) createContentEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("content")
}

// getLongTaskEndpoint returns the (v1) API endpoint to query a long-running task:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-long-running-task/#api-wiki-rest-api-longtask-id-get
func (a *API) getLongTaskEndpoint(opts LongTaskQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to get long task")
	}

	ep, err := a.resolveEndpoint("longtask", opts.ID)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getSpacesEndpoint returns the (v1) API endpoint to list spaces:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
func (a *API) getSpacesEndpoint(opts SpacesQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("space")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getCurrentUserEndpoint returns the (v1) API endpoint to query current user
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("user", "current")
}

// Build an endpoint under BaseURI/rest/api, escaping each path element.  The base path is kept,
// so sites hosted under a prefix such as /wiki work.
func (a *API) resolveEndpoint(elem ...string) (*url.URL, error) {
	if a.BaseURI == nil {
		return nil, fmt.Errorf("confluence: API has no base URI")
	}

	escaped := make([]string, 0, len(elem)+2)
	escaped = append(escaped, "rest", "api")
	for _, e := range elem {
		if e == "" {
			return nil, fmt.Errorf("confluence: empty path element in endpoint %v", elem)
		}
		escaped = append(escaped, url.PathEscape(e))
	}

	ep := a.BaseURI.JoinPath(escaped...)
	ep.RawQuery = ""
	ep.Fragment = ""
	return ep, nil
}
