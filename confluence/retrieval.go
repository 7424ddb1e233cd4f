package confluence

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListAllSpaces walks every page of the space listing and returns the spaces keyed by space key.
func (api *API) ListAllSpaces(ctx context.Context, includePersonal bool) (map[string]Space, error) {
	spaces := map[string]Space{}

	query := SpacesQuery{
		Limit:  50,
		Status: "current",
	}

	if !includePersonal {
		// `type` may be "global", "personal", or nothing at all for both, so it is only set when
		// personal spaces are to be left out.
		query.Type = "global"
	}

	for {
		list, err := api.getSpaces(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range list.Results {
			spaces[space.Key] = space
		}

		if list.Links.Next == "" {
			break
		}

		next, err := url.Parse(list.Links.Next)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
		}
		start, err := strconv.Atoi(next.Query().Get("start"))
		if err != nil {
			return nil, fmt.Errorf("confluence: expected parameter 'start' in _links.next: %w", err)
		}
		if start <= query.Start {
			return nil, fmt.Errorf("confluence: space listing did not advance past %d", query.Start)
		}
		query.Start = start
	}

	return spaces, nil
}
