package confluence

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
type User struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	UserKey     string `json:"userKey"`
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Content is the v1 content shape, as returned by GET /rest/api/content and friends:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
//
// Only the fields we actually look at are mapped.
type Content struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status,omitempty"` // current, archived, trashed, draft
	Title  string `json:"title"`

	Space     *SpaceRef     `json:"space,omitempty"`
	Ancestors []AncestorRef `json:"ancestors,omitempty"`
	Version   *Version      `json:"version,omitempty"`
	Body      *Body         `json:"body,omitempty"`

	Links struct {
		WebUI  string `json:"webui"`
		TinyUI string `json:"tinyui"`
		Self   string `json:"self"`
		Base   string `json:"base"`
	} `json:"_links"`
}

// NewContent is the request body for POST /rest/api/content:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-post
type NewContent struct {
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Space     SpaceRef      `json:"space"`
	Ancestors []AncestorRef `json:"ancestors,omitempty"`
	Body      Body          `json:"body"`
}

type SpaceRef struct {
	Key string `json:"key"`
}

// Space as returned by the (v1) space listing.
type Space struct {
	ID     int64  `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Type   string `json:"type"`   // global, personal
	Status string `json:"status"` // current, archived
}

type AncestorRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Version defines the content version number
type Version struct {
	When   string `json:"when,omitempty"`
	Number int    `json:"number"`
}

// Body holds the storage information
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage defines the storage information.  Representation "storage" means Value is already
// Confluence storage-format XHTML and is stored as-is.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

const (
	PageType              = "page"
	StorageRepresentation = "storage"
)

// LongTask is the progress report of an asynchronous server-side job:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-long-running-task/#api-wiki-rest-api-longtask-id-get
type LongTask struct {
	ID                 string `json:"id"`
	ElapsedTime        int64  `json:"elapsedTime"`
	PercentageComplete int    `json:"percentageComplete"`
	Successful         bool   `json:"successful"`
	Finished           bool   `json:"finished"`

	Name struct {
		Key string `json:"key"`
	} `json:"name"`

	Messages []struct {
		Translation string `json:"translation"`
	} `json:"messages,omitempty"`
}

// Long task states as reported by LongTask.State.
const (
	TaskRunning   = "running"
	TaskSucceeded = "succeeded"
	TaskFailed    = "failed"
)

// State folds the finished/successful flags into one status string.
func (t LongTask) State() string {
	switch {
	case t.Finished && t.Successful:
		return TaskSucceeded
	case t.Finished:
		return TaskFailed
	default:
		return TaskRunning
	}
}
