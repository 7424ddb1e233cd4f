package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc, cfg Config) *API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL + "/wiki"
	api, err := NewAPI(cfg)
	require.NoError(t, err)
	return api
}

func TestNewAPI_Validation(t *testing.T) {
	_, err := NewAPI(Config{})
	assert.Error(t, err)

	_, err = NewAPI(Config{BaseURL: "wiki.example.com"})
	assert.Error(t, err)

	_, err = NewAPI(Config{BaseURL: "ftp://wiki.example.com"})
	assert.Error(t, err)

	api, err := NewAPI(Config{BaseURL: "https://wiki.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, api.Timeout)
	assert.Equal(t, DefaultRequestTimeout, api.Client.Timeout)
	assert.False(t, api.HasCredential())
}

func TestHasCredential(t *testing.T) {
	for name, cfg := range map[string]Config{
		"cookie": {BaseURL: "https://wiki.example.com", SessionCookie: "JSESSIONID=abc"},
		"basic":  {BaseURL: "https://wiki.example.com", Username: "me", Token: "t0k"},
		"bearer": {BaseURL: "https://wiki.example.com", Token: "t0k"},
	} {
		t.Run(name, func(t *testing.T) {
			api, err := NewAPI(cfg)
			require.NoError(t, err)
			assert.True(t, api.HasCredential())
		})
	}

	api, err := NewAPI(Config{BaseURL: "https://wiki.example.com", Username: "me"})
	require.NoError(t, err)
	assert.False(t, api.HasCredential(), "username alone is not a credential")
}

func TestFindContent_QueryAndPath(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/wiki/rest/api/content", r.URL.Path)
		assert.Equal(t, "MITO Release", r.URL.Query().Get("title"))
		assert.Equal(t, "STI", r.URL.Query().Get("spaceKey"))
		assert.Equal(t, "ancestors", r.URL.Query().Get("expand"))
		assert.Equal(t, "JSESSIONID=abc", r.Header.Get("Cookie"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": "42", "type": "page", "title": "MITO Release"}},
			"size":    1,
		})
	}, Config{SessionCookie: "JSESSIONID=abc"})

	list, err := api.FindContent(context.Background(), ContentQuery{
		Title:    "MITO Release",
		SpaceKey: "STI",
		Expand:   []string{"ancestors"},
	})
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "42", list.Results[0].ID)
}

func TestChildPages_EscapesTitle(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/content/1234/child/page", r.URL.Path)
		assert.Equal(t, "MITO FY-25 & friends", r.URL.Query().Get("title"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me", user)
		assert.Equal(t, "t0k", pass)

		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}, Config{Username: "me", Token: "t0k"})

	list, err := api.ChildPages(context.Background(), ChildPagesQuery{ParentID: "1234", Title: "MITO FY-25 & friends"})
	require.NoError(t, err)
	assert.Empty(t, list.Results)
}

func TestChildPages_RequiresParent(t *testing.T) {
	api, err := NewAPI(Config{BaseURL: "https://wiki.example.com"})
	require.NoError(t, err)

	_, err = api.ChildPages(context.Background(), ChildPagesQuery{Title: "x"})
	assert.Error(t, err)
}

func TestCreateContent_Body(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wiki/rest/api/content", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))
		assert.Equal(t, "Bearer t0k", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "page", body["type"])
		assert.Equal(t, "v1.2.3", body["title"])
		assert.Equal(t, map[string]any{"key": "STI"}, body["space"])
		assert.Equal(t, []any{map[string]any{"id": "99"}}, body["ancestors"])
		assert.Equal(t, map[string]any{
			"storage": map[string]any{"value": "<p>a &amp; b</p>", "representation": "storage"},
		}, body["body"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"100","title":"v1.2.3","_links":{"webui":"/spaces/STI/pages/100/v1.2.3"}}`))
	}, Config{Token: "t0k"})

	created, err := api.CreateContent(context.Background(), NewContent{
		Type:      PageType,
		Title:     "v1.2.3",
		Space:     SpaceRef{Key: "STI"},
		Ancestors: []AncestorRef{{ID: "99"}},
		Body:      Body{Storage: Storage{Value: "<p>a &amp; b</p>", Representation: StorageRepresentation}},
	})
	require.NoError(t, err)
	assert.Equal(t, "100", created.ID)
	assert.Equal(t, "/spaces/STI/pages/100/v1.2.3", created.Links.WebUI)
}

func TestRequest_StatusError(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"A page with this title already exists"}`))
	}, Config{Token: "t0k"})

	_, err := api.CreateContent(context.Background(), NewContent{Title: "dup"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, string(se.Body), "already exists")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestRequest_MalformedJSON(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}, Config{})

	_, err := api.FindContent(context.Background(), ContentQuery{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestGetLongTask(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/longtask/abc-123", r.URL.Path)
		w.Write([]byte(`{"id":"abc-123","percentageComplete":100,"finished":true,"successful":true}`))
	}, Config{})

	task, err := api.GetLongTask(context.Background(), LongTaskQuery{ID: "abc-123"})
	require.NoError(t, err)
	assert.Equal(t, TaskSucceeded, task.State())
}

func TestLongTaskState(t *testing.T) {
	assert.Equal(t, TaskRunning, LongTask{}.State())
	assert.Equal(t, TaskRunning, LongTask{Successful: true}.State())
	assert.Equal(t, TaskFailed, LongTask{Finished: true}.State())
	assert.Equal(t, TaskSucceeded, LongTask{Finished: true, Successful: true}.State())
}

func TestWebURL(t *testing.T) {
	api, err := NewAPI(Config{BaseURL: "https://wiki.example.com/wiki"})
	require.NoError(t, err)

	loc, err := api.WebURL("/spaces/STI/pages/100/v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example.com/wiki/spaces/STI/pages/100/v1.2.3", loc)

	loc, err = api.WebURL("display/STI/v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example.com/wiki/display/STI/v1.2.3", loc)

	_, err = api.WebURL("")
	assert.Error(t, err)
}

func TestListAllSpaces_Pages(t *testing.T) {
	var starts []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/space", r.URL.Path)
		assert.Equal(t, "global", r.URL.Query().Get("type"))
		start := r.URL.Query().Get("start")
		starts = append(starts, start)

		resp := map[string]any{}
		switch start {
		case "":
			resp["results"] = []map[string]any{{"id": 1, "key": "STI", "name": "Standard Tools and Infrastructure"}}
			resp["_links"] = map[string]any{"next": "/rest/api/space?limit=50&start=50&type=global"}
		case "50":
			resp["results"] = []map[string]any{{"id": 2, "key": "SIR", "name": "Sirius"}}
		}
		json.NewEncoder(w).Encode(resp)
	}, Config{Token: "t0k"})

	spaces, err := api.ListAllSpaces(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "50"}, starts)
	require.Len(t, spaces, 2)
	assert.Equal(t, "Sirius", spaces["SIR"].Name)
	assert.Equal(t, int64(1), spaces["STI"].ID)
}

func TestListAllSpaces_StuckCursor(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("type"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{},
			"_links":  map[string]any{"next": "/rest/api/space?start=0"},
		})
	}, Config{Token: "t0k"})

	_, err := api.ListAllSpaces(context.Background(), true)
	assert.Error(t, err)
}
