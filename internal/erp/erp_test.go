package erp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchProjects(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"name":"PROJ-0001","project_name":"Warehouse","status":"Open"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	projects, err := c.SearchProjects("ware")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "PROJ-0001", projects[0]["name"])

	assert.Equal(t, "/api/resource/Project", gotPath)
	assert.Equal(t, "token key:secret", gotAuth)
	assert.Equal(t, []string{"ware"}, gotQuery["txt"])
	assert.Equal(t, []string{`{"status":"Open"}`}, gotQuery["filters"])
	assert.Equal(t, []string{"20"}, gotQuery["limit_page_length"])
}

func TestGetProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Project/PROJ-0002", r.URL.Path)
		w.Write([]byte(`{"data":{"name":"PROJ-0002","customer":"ACME"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	p, err := c.GetProject("PROJ-0002")
	require.NoError(t, err)
	assert.Equal(t, "ACME", p["customer"])
}

func TestGetProjectUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	_, err := c.GetProject("PROJ-0001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient("", "", "").Configured())
	assert.True(t, NewClient("https://erp.example.com", "k", "s").Configured())
}

func TestHandlerUnconfigured(t *testing.T) {
	h := &Handler{Client: NewClient("", "", "")}

	rec := httptest.NewRecorder()
	h.Projects(rec, httptest.NewRequest(http.MethodGet, "/erpnext/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
	assert.Contains(t, resp.Error, "not configured")
}

func TestHandlerProjectDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"name":"PROJ-0003"}}`))
	}))
	defer srv.Close()

	h := &Handler{Client: NewClient(srv.URL, "k", "s")}
	router := mux.NewRouter()
	router.HandleFunc("/erpnext/project/{name}", h.ProjectDetail)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/erpnext/project/PROJ-0003", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp detailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PROJ-0003", resp.Data["name"])
	assert.Empty(t, resp.Error)
}
