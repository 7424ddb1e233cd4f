package publish

import "go.uber.org/zap"

// DuplicatePolicy decides what Publish does when the parent already has a child with the same
// title.
type DuplicatePolicy int

const (
	// CreateDuplicate creates the page regardless.  Nothing is checked, so publishing the same
	// request twice yields two pages.
	CreateDuplicate DuplicatePolicy = iota
	// RejectDuplicate looks for a same-titled child first and fails with AlreadyExists.
	RejectDuplicate
)

func (d DuplicatePolicy) String() string {
	switch d {
	case RejectDuplicate:
		return "reject"
	default:
		return "create"
	}
}

type options struct {
	logger     *zap.Logger
	strict     bool
	duplicates DuplicatePolicy
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictMatching makes resolution fail with Ambiguous when a title matches several pages,
// instead of taking the first one Confluence returns.
func WithStrictMatching() Option {
	return func(o *options) { o.strict = true }
}

func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(o *options) { o.duplicates = policy }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:     zap.NewNop(),
		duplicates: CreateDuplicate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
