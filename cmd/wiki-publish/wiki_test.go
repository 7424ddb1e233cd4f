package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type stubPage struct {
	id, parent, title string
}

// stubWiki answers title lookups and page creation for one space, and counts requests per method.
type stubWiki struct {
	mu     sync.Mutex
	pages  []stubPage
	nextID int
	calls  map[string]int

	// long tasks report finished once polled this many times; a missing ID is a 404.
	tasks map[string]int
	polls map[string]int
}

func newStubWiki(titles ...string) *stubWiki {
	w := &stubWiki{calls: map[string]int{}, tasks: map[string]int{}, polls: map[string]int{}}
	parent := ""
	for _, title := range titles {
		parent = w.add(parent, title)
	}
	return w
}

func (s *stubWiki) add(parent, title string) string {
	s.nextID++
	id := fmt.Sprint(s.nextID)
	s.pages = append(s.pages, stubPage{id: id, parent: parent, title: title})
	return id
}

func (s *stubWiki) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *stubWiki) titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, p := range s.pages {
		out = append(out, p.title)
	}
	return out
}

func (s *stubWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[r.Method]++

	if id, ok := strings.CutPrefix(r.URL.Path, "/wiki/rest/api/longtask/"); ok {
		after, known := s.tasks[id]
		if !known {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.polls[id]++
		done := s.polls[id] >= after
		json.NewEncoder(w).Encode(map[string]any{"id": id, "finished": done, "successful": done})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/wiki/rest/api/content")
	title := r.URL.Query().Get("title")

	var results []map[string]any
	match := func(parent string) {
		for _, p := range s.pages {
			if p.parent == parent && p.title == title {
				results = append(results, map[string]any{"id": p.id, "type": "page", "title": p.title})
			}
		}
	}

	switch {
	case r.Method == http.MethodGet && rest == "":
		match("")
	case r.Method == http.MethodGet && strings.HasSuffix(rest, "/child/page"):
		match(strings.TrimSuffix(strings.TrimPrefix(rest, "/"), "/child/page"))
	case r.Method == http.MethodPost && rest == "":
		var body struct {
			Title     string `json:"title"`
			Ancestors []struct {
				ID string `json:"id"`
			} `json:"ancestors"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Ancestors) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := s.add(body.Ancestors[0].ID, body.Title)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     id,
			"type":   "page",
			"title":  body.Title,
			"_links": map[string]string{"webui": "/pages/" + id},
		})
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{"results": results, "size": len(results)})
}

// serveStubWiki points the CLI globals at wiki with a session cookie configured.
func serveStubWiki(t *testing.T, wiki *stubWiki) {
	t.Helper()
	server := httptest.NewServer(wiki)
	t.Cleanup(server.Close)

	BaseURL = server.URL + "/wiki"
	SessionCookieEnv = "WIKI_PUBLISH_TEST_COOKIE"
	t.Setenv(SessionCookieEnv, "JSESSIONID=test")
}
