package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otlabs.dev/labgate/internal/content"
)

func TestBlogListAndGet(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(s.Handler(), http.MethodGet, "/api/blog", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var posts []content.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.NotEmpty(t, posts)

	rec = doJSON(s.Handler(), http.MethodGet, "/api/blog/"+posts[0].Slug, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), posts[0].Title)
}

func TestBlogPostNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(s.Handler(), http.MethodGet, "/api/blog/no-such-post", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Blog post not found")
}

func TestProtocolPages(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(s.Handler(), http.MethodGet, "/api/content/protocols", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var pages []content.ProtocolPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pages))
	assert.Len(t, pages, 8)

	rec = doJSON(s.Handler(), http.MethodGet, "/api/content/protocols/modbus", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Modbus TCP")

	rec = doJSON(s.Handler(), http.MethodGet, "/api/content/protocols/profinet", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTools(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(s.Handler(), http.MethodGet, "/api/tools", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s.Handler(), http.MethodGet, "/api/tools/termshark", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Termshark")

	rec = doJSON(s.Handler(), http.MethodGet, "/api/tools/nmap", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
