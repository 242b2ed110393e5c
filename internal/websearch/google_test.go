package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSearch(t *testing.T) {
	var gotQuery, gotCx string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCx = r.URL.Query().Get("cx")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"Acme","link":"https://acme.example","snippet":"Mission: ship."}]}`))
	}))
	t.Cleanup(srv.Close)

	g, err := NewGoogle(context.Background(), "key", "engine", srv.URL+"/")
	require.NoError(t, err)

	results, err := g.Search(context.Background(), "Acme mission statement", 3)
	require.NoError(t, err)
	assert.Equal(t, "Acme mission statement", gotQuery)
	assert.Equal(t, "engine", gotCx)
	assert.Equal(t, []Result{{Title: "Acme", Link: "https://acme.example", Snippet: "Mission: ship."}}, results)
}

func TestGoogleRequiresCredentials(t *testing.T) {
	_, err := NewGoogle(context.Background(), "", "cx", "")
	assert.Error(t, err)
}
