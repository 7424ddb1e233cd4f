package publish

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/toothbrush/wiki-publish/confluence"
)

type fakePage struct {
	id, space, parent, title, body string
}

// fakeWiki serves just enough of the Confluence v1 content API, backed by an in-memory page tree,
// and records every request it sees.
type fakeWiki struct {
	t *testing.T

	mu       sync.Mutex
	pages    []fakePage
	nextID   int
	requests []string

	// fail answers requests whose "METHOD path?query" contains the key with the given status.
	fail map[string]int
}

func newFakeWiki(t *testing.T) *fakeWiki {
	return &fakeWiki{t: t, nextID: 1000, fail: map[string]int{}}
}

// add creates a page below parent (empty for space root) and returns its ID.
func (f *fakeWiki) add(space, parent, title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprint(f.nextID)
	f.pages = append(f.pages, fakePage{id: id, space: space, parent: parent, title: title})
	return id
}

func (f *fakeWiki) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeWiki) children(parent string) []fakePage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakePage
	for _, p := range f.pages {
		if p.parent == parent {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.Query().Encode()
	}
	f.requests = append(f.requests, key)
	for needle, status := range f.fail {
		if strings.Contains(key, needle) {
			f.mu.Unlock()
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"injected failure"}`))
			return
		}
	}
	f.mu.Unlock()

	rest := strings.TrimPrefix(r.URL.Path, "/wiki/rest/api/content")
	switch {
	case r.Method == http.MethodGet && rest == "":
		q := r.URL.Query()
		f.writeMatches(w, func(p fakePage) bool {
			return p.space == q.Get("spaceKey") && p.title == q.Get("title")
		})

	case r.Method == http.MethodGet && strings.HasSuffix(rest, "/child/page"):
		parent := strings.TrimSuffix(strings.TrimPrefix(rest, "/"), "/child/page")
		title := r.URL.Query().Get("title")
		f.writeMatches(w, func(p fakePage) bool {
			return p.parent == parent && (title == "" || p.title == title)
		})

	case r.Method == http.MethodPost && rest == "":
		var nc confluence.NewContent
		if err := json.NewDecoder(r.Body).Decode(&nc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		parent := ""
		if len(nc.Ancestors) > 0 {
			parent = nc.Ancestors[0].ID
		}
		id := f.add(nc.Space.Key, parent, nc.Title)
		f.mu.Lock()
		f.pages[len(f.pages)-1].body = nc.Body.Storage.Value
		f.mu.Unlock()

		json.NewEncoder(w).Encode(map[string]any{
			"id":     id,
			"type":   "page",
			"title":  nc.Title,
			"_links": map[string]string{"webui": fmt.Sprintf("/spaces/%s/pages/%s", nc.Space.Key, id)},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeWiki) writeMatches(w http.ResponseWriter, match func(fakePage) bool) {
	f.mu.Lock()
	results := []map[string]any{}
	for _, p := range f.pages {
		if match(p) {
			results = append(results, map[string]any{
				"id":     p.id,
				"type":   "page",
				"title":  p.title,
				"_links": map[string]string{"webui": fmt.Sprintf("/spaces/%s/pages/%s", p.space, p.id)},
			})
		}
	}
	f.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]any{"results": results, "size": len(results)})
}

// start serves the wiki and returns an API pointed at it.
func (f *fakeWiki) start(cfg confluence.Config) (*confluence.API, string) {
	server := httptest.NewServer(f)
	f.t.Cleanup(server.Close)

	cfg.BaseURL = server.URL + "/wiki"
	api, err := confluence.NewAPI(cfg)
	require.NoError(f.t, err)
	return api, cfg.BaseURL
}

// releaseTree builds STI: Tools/MITO/MITO FY-25/MITO Release and returns the leaf ID.
func (f *fakeWiki) releaseTree() string {
	root := f.add("STI", "", "Tools")
	mito := f.add("STI", root, "MITO")
	fy := f.add("STI", mito, "MITO FY-25")
	return f.add("STI", fy, "MITO Release")
}
