package publish

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/toothbrush/wiki-publish/confluence"
	"go.uber.org/zap"
)

// Creator is the part of the Confluence API a Publisher needs.  *confluence.API satisfies it.
type Creator interface {
	Finder
	HasCredential() bool
	CreateContent(ctx context.Context, content confluence.NewContent) (*confluence.Content, error)
	WebURL(webui string) (string, error)
}

// Request describes one page to create.
type Request struct {
	Space string // space key, e.g. STI
	Path  Path   // titles leading to the parent page
	Title string

	// Content is storage-format markup and is sent untouched.
	Content string
}

// Publisher creates pages underneath a title path.  It never retries: a create that timed out
// may still have happened.
type Publisher struct {
	api        Creator
	resolver   *Resolver
	duplicates DuplicatePolicy
	logger     *zap.Logger
}

func NewPublisher(api Creator, opts ...Option) *Publisher {
	o := buildOptions(opts)
	return &Publisher{
		api:        api,
		resolver:   NewResolver(api, opts...),
		duplicates: o.duplicates,
		logger:     o.logger,
	}
}

// Publish resolves req.Path and creates req.Title below it, returning the absolute URL of the new
// page.
func (p *Publisher) Publish(ctx context.Context, req Request) (string, error) {
	logger := p.logger.With(
		zap.String("publish_id", uuid.NewString()),
		zap.String("space", req.Space),
		zap.String("title", req.Title))

	if !p.api.HasCredential() {
		logger.Error("No publishing credential configured")
		return "", &ConfigurationError{Setting: "credential", Err: ErrMissingCredential}
	}
	if strings.TrimSpace(req.Title) == "" {
		return "", ErrEmptyTitle
	}

	logger.Info("Finding parent page", zap.Stringer("path", req.Path))
	parentID, err := p.resolver.Resolve(ctx, req.Space, req.Path)
	if err != nil {
		logger.Error("Could not find parent page", zap.Stringer("path", req.Path), zap.Error(err))
		return "", &PublishError{Kind: ResolutionFailed, Title: req.Title, Err: err}
	}
	logger = logger.With(zap.String("parent_id", parentID))

	if p.duplicates == RejectDuplicate {
		if err := p.checkNoSibling(ctx, parentID, req.Title); err != nil {
			logger.Warn("Refusing to create page", zap.Error(err))
			return "", err
		}
	}

	logger.Info("Creating page")
	created, err := p.api.CreateContent(ctx, confluence.NewContent{
		Type:      confluence.PageType,
		Title:     req.Title,
		Space:     confluence.SpaceRef{Key: req.Space},
		Ancestors: []confluence.AncestorRef{{ID: parentID}},
		Body: confluence.Body{
			Storage: confluence.Storage{
				Value:          req.Content,
				Representation: confluence.StorageRepresentation,
			},
		},
	})
	if err != nil {
		pe := remoteFailure(req.Title, err)
		logger.Error("Failed to create page", zap.Int("status", pe.StatusCode), zap.Error(err))
		return "", pe
	}

	location, err := p.api.WebURL(created.Links.WebUI)
	if err != nil {
		return "", &PublishError{Kind: TransportFailed, Title: req.Title, Err: err}
	}

	logger.Info("Page created", zap.String("id", created.ID), zap.String("location", location))
	return location, nil
}

func (p *Publisher) checkNoSibling(ctx context.Context, parentID, title string) error {
	siblings, err := p.api.ChildPages(ctx, confluence.ChildPagesQuery{ParentID: parentID, Title: title})
	if err != nil {
		return remoteFailure(title, err)
	}
	if siblings == nil {
		return nil
	}

	for _, s := range siblings.Results {
		if s.Title != title {
			continue
		}
		location, err := p.api.WebURL(s.Links.WebUI)
		if err != nil {
			location = s.ID
		}
		return &PublishError{Kind: AlreadyExists, Title: title, Location: location, Err: ErrAlreadyExists}
	}

	return nil
}

func remoteFailure(title string, err error) *PublishError {
	var se *confluence.StatusError
	if errors.As(err, &se) {
		return &PublishError{
			Kind:       RemoteStatus,
			Title:      title,
			StatusCode: se.StatusCode,
			Body:       string(se.Body),
			Err:        err,
		}
	}
	return &PublishError{Kind: TransportFailed, Title: title, Err: err}
}
