package felt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:  "key-map",
		MapID:   "map-123",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{MapID: "m"})
	assert.Error(t, err)

	_, err = NewClient(Config{APIKey: "k"})
	assert.Error(t, err)
}

func TestListLayers(t *testing.T) {
	var gotPath, gotAuth string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "l1", "name": "Poster Submissions", "type": "csv"},
			{"id": "l2", "name": "Other"},
		})
	}))

	layers, err := client.ListLayers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/maps/map-123/layers", gotPath)
	assert.Equal(t, "Bearer key-map", gotAuth)
	require.Len(t, layers, 2)
	assert.Equal(t, "l1", layers[0].ID)
	assert.Equal(t, "Poster Submissions", layers[0].Name)
}

func TestCreateLayer(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"id": "new-layer", "name": "Poster Submissions"})
	}))

	layer, err := client.CreateLayer(context.Background(), "Poster Submissions", "https://pub.example/offerings.csv")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/maps/map-123/upload", gotPath)
	assert.Equal(t, map[string]string{
		"name":       "Poster Submissions",
		"import_url": "https://pub.example/offerings.csv",
	}, gotBody)
	assert.Equal(t, "new-layer", layer.ID)
	assert.Equal(t, "Poster Submissions", layer.Name)
}

func TestRefreshLayer(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))

	err := client.RefreshLayer(context.Background(), "l1", "https://pub.example/offerings.csv")
	require.NoError(t, err)

	assert.Equal(t, "/maps/map-123/layers/l1/refresh", gotPath)
	assert.Equal(t, map[string]string{"import_url": "https://pub.example/offerings.csv"}, gotBody)
}

func TestNonSuccessCarriesStatusAndBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"import_url unreachable"}`))
	}))

	_, err := client.CreateLayer(context.Background(), "Poster Submissions", "https://pub.example/offerings.csv")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Status)
	assert.Contains(t, statusErr.Body, "import_url unreachable")
}

func TestListLayers_MalformedResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>gateway</html>"))
	}))

	_, err := client.ListLayers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
