package jikan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "data": [
    {
      "mal_id": 1,
      "title": "Cowboy Bebop",
      "synopsis": "Bounty hunters in space.",
      "score": 8.75,
      "episodes": 26,
      "status": "Finished Airing",
      "images": {"jpg": {"image_url": "https://cdn.myanimelist.net/images/anime/4/19644.jpg"}}
    },
    {
      "mal_id": 5,
      "title": "Cowboy Bebop: Tengoku no Tobira",
      "synopsis": null,
      "score": null,
      "episodes": 1,
      "status": "Finished Airing",
      "images": {"jpg": {"image_url": null}}
    }
  ]
}`

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		assert.Equal(t, "cowboy bebop", r.URL.Query().Get("q"))
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	hits, err := client.Search(context.Background(), "cowboy bebop", 12)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	first := hits[0]
	assert.Equal(t, int64(1), first.MalID)
	assert.Equal(t, "Cowboy Bebop", first.Title)
	require.NotNil(t, first.Synopsis)
	assert.Equal(t, "Bounty hunters in space.", *first.Synopsis)
	require.NotNil(t, first.Score)
	assert.Equal(t, 8.75, *first.Score)
	require.NotNil(t, first.ImageURL())
	assert.Contains(t, *first.ImageURL(), "19644.jpg")

	// Nullable fields stay nil instead of zeroing.
	second := hits[1]
	assert.Nil(t, second.Synopsis)
	assert.Nil(t, second.Score)
	assert.Nil(t, second.ImageURL())
}

func TestClient_Search_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Search(context.Background(), "bebop", 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Search_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)
	_, err := client.Search(context.Background(), "bebop", 12)
	require.Error(t, err)
}

func TestClient_Search_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Search(context.Background(), "bebop", 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
