package publish

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPath         = errors.New("publish: path has no titles")
	ErrEmptySegment      = errors.New("publish: path contains an empty title")
	ErrEmptySpace        = errors.New("publish: no space key given")
	ErrEmptyTitle        = errors.New("publish: page title is empty")
	ErrMissingCredential = errors.New("publish: no publishing credential configured")

	ErrSegmentNotFound = errors.New("publish: page not found")
	ErrAmbiguousMatch  = errors.New("publish: title matches more than one page")
	ErrAlreadyExists   = errors.New("publish: a page with this title already exists under the parent")
)

// ConfigurationError means the publisher was asked to do something it isn't set up for.  It is
// always raised before any request goes out.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("publish: configuration error (%s): %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

type ResolutionErrorKind int

const (
	// NotFound: no page with the title exists where we looked.
	NotFound ResolutionErrorKind = iota
	// Ambiguous: several pages matched and strict matching is on.
	Ambiguous
	// Transport: the lookup itself failed (network, non-2xx status, garbage body).
	Transport
)

func (k ResolutionErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Ambiguous:
		return "ambiguous"
	case Transport:
		return "transport"
	default:
		return fmt.Sprintf("ResolutionErrorKind(%d)", int(k))
	}
}

// ResolutionError reports which title of a path could not be resolved and why.
type ResolutionError struct {
	Kind  ResolutionErrorKind
	Index int    // zero-based position of the failing title
	Title string // the failing title

	// Matches is the number of candidates seen, for Ambiguous.
	Matches int
	// StatusCode is the HTTP status for Transport errors, or 0 if the server never answered.
	StatusCode int

	Err error
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case NotFound:
		return fmt.Sprintf("publish: page '%s' (level %d) not found", e.Title, e.Index+1)
	case Ambiguous:
		return fmt.Sprintf("publish: page '%s' (level %d) matches %d pages", e.Title, e.Index+1, e.Matches)
	default:
		return fmt.Sprintf("publish: looking up page '%s' (level %d) failed: %v", e.Title, e.Index+1, e.Err)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

type PublishErrorKind int

const (
	// ResolutionFailed: the parent path could not be resolved; Err is the resolver's error.
	ResolutionFailed PublishErrorKind = iota
	// AlreadyExists: a same-titled sibling exists and the duplicate policy rejects it.
	AlreadyExists
	// RemoteStatus: Confluence refused the create request.
	RemoteStatus
	// TransportFailed: the request never produced a usable answer.
	TransportFailed
)

func (k PublishErrorKind) String() string {
	switch k {
	case ResolutionFailed:
		return "resolution failed"
	case AlreadyExists:
		return "already exists"
	case RemoteStatus:
		return "remote status"
	case TransportFailed:
		return "transport"
	default:
		return fmt.Sprintf("PublishErrorKind(%d)", int(k))
	}
}

type PublishError struct {
	Kind  PublishErrorKind
	Title string

	// Set for RemoteStatus.
	StatusCode int
	Body       string

	// Set for AlreadyExists: where the existing page lives.
	Location string

	Err error
}

func (e *PublishError) Error() string {
	switch e.Kind {
	case ResolutionFailed:
		return fmt.Sprintf("publish: couldn't resolve parent of '%s': %v", e.Title, e.Err)
	case AlreadyExists:
		return fmt.Sprintf("publish: page '%s' already exists at %s", e.Title, e.Location)
	case RemoteStatus:
		return fmt.Sprintf("publish: failed to create page '%s': %d - %s", e.Title, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("publish: failed to create page '%s': %v", e.Title, e.Err)
	}
}

func (e *PublishError) Unwrap() error { return e.Err }
