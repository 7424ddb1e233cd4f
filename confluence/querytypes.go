package confluence

// ContentQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
type ContentQuery struct {
	Type     string   `url:"type,omitempty"`         // page, blogpost
	SpaceKey string   `url:"spaceKey,omitempty"`     // The key of the space to be queried for its content.
	Title    string   `url:"title,omitempty"`        // The title of the page to be returned. Required for page type.
	Status   []string `url:"status,omitempty,comma"` // current, trashed, draft, any
	Expand   []string `url:"expand,omitempty,comma"` // e.g. ancestors, version, space

	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"` // page limit; default 25
}

// ChildPagesQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-child-and-descendants/#api-wiki-rest-api-content-id-child-type-get
type ChildPagesQuery struct {
	ParentID string `url:"-"` // ID of the parent page; required

	Title  string   `url:"title,omitempty"`
	Expand []string `url:"expand,omitempty,comma"`

	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"`
}

// LongTaskQuery identifies one long-running task.
type LongTaskQuery struct {
	ID string `url:"-"` // ID of the task; required

	Expand []string `url:"expand,omitempty,comma"`
}

// SpacesQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
type SpacesQuery struct {
	Type   string `url:"type,omitempty"`   // "global" or "personal"; empty for both
	Status string `url:"status,omitempty"` // current, archived

	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"` // page limit; default 25
}
