package publish

import (
	"strings"
)

// Path is an ordered list of page titles, outermost first.  The first title is looked up at the
// root of a space, each following one among the children of the page before it.
type Path []string

// ParsePath splits a slash-separated title path such as
// "Tools and Infrastructure/MITO/MITO FY-25/MITO Release".  Whitespace around each title is
// dropped.  Titles containing a literal slash cannot be expressed.
func ParsePath(raw string) (Path, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyPath
	}

	parts := strings.Split(raw, "/")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		title := strings.TrimSpace(part)
		if title == "" {
			return nil, ErrEmptySegment
		}
		path = append(path, title)
	}

	return path, nil
}

func (p Path) String() string {
	return strings.Join(p, "/")
}
