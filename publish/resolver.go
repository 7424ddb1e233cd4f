package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/toothbrush/wiki-publish/confluence"
	"go.uber.org/zap"
)

// Finder is the read-only part of the Confluence API that path resolution needs.
type Finder interface {
	FindContent(ctx context.Context, opts confluence.ContentQuery) (*confluence.ContentList, error)
	ChildPages(ctx context.Context, opts confluence.ChildPagesQuery) (*confluence.ContentList, error)
}

// Resolver walks a Path down the page tree of a space.  It keeps no state between calls.
type Resolver struct {
	api    Finder
	strict bool
	logger *zap.Logger
}

func NewResolver(api Finder, opts ...Option) *Resolver {
	o := buildOptions(opts)
	return &Resolver{
		api:    api,
		strict: o.strict,
		logger: o.logger,
	}
}

// Resolve returns the ID of the page the last title of path names.  The first title is searched
// at the root of space, every other one among the children of the previous match.  The walk stops
// at the first title that fails; later titles are never queried.
func (r *Resolver) Resolve(ctx context.Context, space string, path Path) (string, error) {
	if len(path) == 0 {
		return "", ErrEmptyPath
	}
	if space == "" {
		return "", ErrEmptySpace
	}

	// an empty title would drop out of the query and match every child.
	titles := make([]string, len(path))
	for i, seg := range path {
		titles[i] = strings.TrimSpace(seg)
		if titles[i] == "" {
			return "", fmt.Errorf("publish: title %d of '%s': %w", i+1, path, ErrEmptySegment)
		}
	}

	parentID := ""
	for i, title := range titles {
		r.logger.Debug("Searching for page",
			zap.String("title", title),
			zap.Int("level", i+1),
			zap.Int("depth", len(titles)),
			zap.String("parent_id", parentID))

		matches, err := r.lookup(ctx, space, parentID, title)
		if err != nil {
			r.logger.Warn("Page lookup failed", zap.String("title", title), zap.Error(err))
			return "", &ResolutionError{
				Kind:       Transport,
				Index:      i,
				Title:      title,
				StatusCode: confluence.StatusCode(err),
				Err:        err,
			}
		}

		if len(matches) == 0 {
			r.logger.Warn("Page not found in the hierarchy", zap.String("title", title), zap.Int("level", i+1))
			return "", &ResolutionError{Kind: NotFound, Index: i, Title: title, Err: ErrSegmentNotFound}
		}
		if r.strict && len(matches) > 1 {
			return "", &ResolutionError{Kind: Ambiguous, Index: i, Title: title, Matches: len(matches), Err: ErrAmbiguousMatch}
		}

		// first match wins; Confluence's ordering is taken as-is.
		parentID = matches[0].ID
		if parentID == "" {
			return "", &ResolutionError{
				Kind:  Transport,
				Index: i,
				Title: title,
				Err:   fmt.Errorf("publish: match for '%s' carried no ID", title),
			}
		}
		r.logger.Debug("Found page", zap.String("title", title), zap.String("id", parentID))
	}

	return parentID, nil
}

func (r *Resolver) lookup(ctx context.Context, space, parentID, title string) ([]confluence.Content, error) {
	var (
		list *confluence.ContentList
		err  error
	)

	if parentID == "" {
		list, err = r.api.FindContent(ctx, confluence.ContentQuery{
			Title:    title,
			SpaceKey: space,
			Expand:   []string{"ancestors"},
		})
	} else {
		list, err = r.api.ChildPages(ctx, confluence.ChildPagesQuery{
			ParentID: parentID,
			Title:    title,
		})
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}

	return list.Results, nil
}
