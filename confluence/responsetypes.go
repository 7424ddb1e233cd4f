package confluence

// ContentList is the paged envelope around content search results.
type ContentList struct {
	Results []Content `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`

	Links struct {
		// Relative URL of the next page of results.  Absent when there is no more data.
		Next string `json:"next"`
	} `json:"_links"`
}

// SpaceList is the paged envelope around the space listing.
type SpaceList struct {
	Results []Space `json:"results"`
	Start   int     `json:"start"`
	Limit   int     `json:"limit"`
	Size    int     `json:"size"`

	Links struct {
		Next string `json:"next"`
	} `json:"_links"`
}
