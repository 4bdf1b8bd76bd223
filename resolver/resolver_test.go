package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/go-identity-sdk/diddoc"
)

func didServer(t *testing.T, docs map[string]*diddoc.Document) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		did, err := url.PathUnescape(r.URL.Path[1:])
		require.NoError(t, err)
		doc, ok := docs[did]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(doc)
	}))
}

func TestDIDResolverResolve(t *testing.T) {
	doc := &diddoc.Document{ID: "did:example:123"}
	server := didServer(t, map[string]*diddoc.Document{"did:example:123": doc})
	defer server.Close()

	r := NewDIDResolverWithHTTP(server.URL, server.Client())

	resolved, err := r.Resolve(context.Background(), "did:example:123")
	require.NoError(t, err)
	assert.Equal(t, "did:example:123", resolved.ID)

	_, err = r.Resolve(context.Background(), "did:example:missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")

	_, err = r.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestDIDResolverUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"didDocument":         map[string]interface{}{"id": "did:example:wrapped"},
			"didDocumentMetadata": map[string]interface{}{},
		})
	}))
	defer server.Close()

	r := NewDIDResolverWithHTTP(server.URL, server.Client())
	resolved, err := r.Resolve(context.Background(), "did:example:wrapped")
	require.NoError(t, err)
	assert.Equal(t, "did:example:wrapped", resolved.ID)
}

func TestDIDResolverRejectsMismatchedID(t *testing.T) {
	doc := &diddoc.Document{ID: "did:example:other"}
	server := didServer(t, map[string]*diddoc.Document{"did:example:123": doc})
	defer server.Close()

	r := NewDIDResolverWithHTTP(server.URL, server.Client())
	_, err := r.Resolve(context.Background(), "did:example:123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestResolveAll(t *testing.T) {
	squares := Func[int, int](func(ctx context.Context, n int) (int, error) {
		if n < 0 {
			return 0, fmt.Errorf("negative input %d", n)
		}
		return n * n, nil
	})

	results, err := ResolveAll[int, int](context.Background(), squares, []int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16}, results)

	_, err = ResolveAll[int, int](context.Background(), squares, []int{1, -2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative input")

	empty, err := ResolveAll[int, int](context.Background(), squares, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
