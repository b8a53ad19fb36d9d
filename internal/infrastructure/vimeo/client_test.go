package vimeo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbcportal/internal/domain"
)

func videoJSON(id, name string) map[string]interface{} {
	return map[string]interface{}{
		"uri":      "/videos/" + id,
		"name":     name,
		"duration": 90,
		"link":     "https://vimeo.com/" + id + "/abc123",
		"pictures": map[string]interface{}{"base_link": "https://i.vimeocdn.com/" + id},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc, perPage, maxPages int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Token: "tkn", PerPage: perPage, MaxPages: maxPages}, nil)
}

func TestClient_ListVideosPaging(t *testing.T) {
	var pages []string
	var mu sync.Mutex
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pages = append(pages, r.URL.Query().Get("page"))
		mu.Unlock()

		assert.Equal(t, "/me/videos", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		assert.Equal(t, acceptHeader, r.Header.Get("Accept"))
		assert.Equal(t, "date", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("direction"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var body map[string]interface{}
		switch page {
		case 1:
			body = map[string]interface{}{
				"data":   []interface{}{videoJSON("1", "a"), videoJSON("2", "b")},
				"paging": map[string]interface{}{"next": "/me/videos?page=2"},
			}
		default:
			body = map[string]interface{}{
				"data":   []interface{}{videoJSON("3", "c")},
				"paging": map[string]interface{}{"next": "/me/videos?page=3"},
			}
		}
		_ = json.NewEncoder(w).Encode(body)
	}, 2, 10)

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 3)
	// page 2 was short, so no third request
	mu.Lock()
	assert.Equal(t, []string{"1", "2"}, pages)
	mu.Unlock()

	v := videos[0]
	assert.Equal(t, "1", v.ID)
	assert.Equal(t, "a", v.Title)
	assert.Equal(t, 90.0, v.DurationSeconds)
	require.NotNil(t, v.ThumbnailURL)
	assert.Equal(t, "https://i.vimeocdn.com/1", *v.ThumbnailURL)
	require.NotNil(t, v.PlaybackHash)
	assert.Equal(t, "abc123", *v.PlaybackHash)
}

func TestClient_StopsWithoutNext(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":   []interface{}{videoJSON("1", "a")},
			"paging": map[string]interface{}{"next": nil},
		})
	}, 1, 10)

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_MaxPages(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":   []interface{}{videoJSON(strconv.Itoa(int(n)), "a")},
			"paging": map[string]interface{}{"next": "more"},
		})
	}, 1, 3)

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 3)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_FailuresAreAbsorbed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "1" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data":   []interface{}{videoJSON("1", "a")},
				"paging": map[string]interface{}{"next": "more"},
			})
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}, 1, 5)

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestClient_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}, 50, 5)

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestClient_NoTokenSkipsNetwork(t *testing.T) {
	var called atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL}, nil)
	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.False(t, called.Load())
}

func TestClient_Normalization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{
				map[string]interface{}{
					"uri":  "/videos/9",
					"link": "https://vimeo.com/9",
					"pictures": map[string]interface{}{
						"sizes": []interface{}{
							map[string]interface{}{"link": "small"},
							map[string]interface{}{"link": "large"},
						},
					},
				},
				map[string]interface{}{
					"uri":  "/videos/10",
					"name": "x",
					"link": "https://vimeo.com/10/not-hex",
				},
			},
		})
	}, 50, 1)

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "Untitled", videos[0].Title)
	require.NotNil(t, videos[0].ThumbnailURL)
	assert.Equal(t, "large", *videos[0].ThumbnailURL)
	// "9" is hex, so the id segment doubles as the hash
	require.NotNil(t, videos[0].PlaybackHash)
	assert.Equal(t, "9", *videos[0].PlaybackHash)

	assert.Nil(t, videos[1].ThumbnailURL)
	assert.Nil(t, videos[1].PlaybackHash)
}

func TestClient_ListProjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/projects", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("sort"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{
				map[string]interface{}{"uri": "/users/1/projects/77", "name": "설교"},
				map[string]interface{}{"uri": "", "name": "no id"},
				map[string]interface{}{"uri": "/users/1/projects/78"},
			},
		})
	}, 50, 1)

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Project{{ID: "77", Name: "설교"}, {ID: "78", Name: "Untitled"}}, projects)
}

func TestClient_ListProjectVideos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/projects/77/videos", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{videoJSON("5", "p")},
		})
	}, 50, 1)

	videos, err := client.ListProjectVideos(context.Background(), "77")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "5", videos[0].ID)

	videos, err = client.ListProjectVideos(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestClient_GetVideo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos/404" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"name": "single"})
	}, 50, 1)

	v, err := client.GetVideo(context.Background(), "12")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "12", v.ID)
	assert.Equal(t, "single", v.Title)

	v, err = client.GetVideo(context.Background(), "404")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClient_ListVideosByIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{videoJSON("1", "a"), videoJSON("2", "b"), videoJSON("3", "c")},
		})
	}, 50, 1)

	videos, err := client.ListVideosByIDs(context.Background(), []string{"3", "x", "1"})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "3", videos[0].ID)
	assert.Equal(t, "1", videos[1].ID)
}

type memCache struct {
	data    map[string][]byte
	failGet bool
	sets    int
}

func (m *memCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	if m.failGet {
		return false, errors.New("down")
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.data[key] = raw
	return nil
}

type countingSource struct {
	calls   int
	partial bool
	videos  []domain.Video
}

func (s *countingSource) FetchVideos(context.Context) ([]domain.Video, bool) {
	s.calls++
	return s.videos, !s.partial
}

func (s *countingSource) FetchProjectVideos(_ context.Context, id string) ([]domain.Video, bool) {
	s.calls++
	return []domain.Video{{ID: "p-" + id}}, !s.partial
}

func (s *countingSource) FetchProjects(context.Context) ([]domain.Project, bool) {
	s.calls++
	return []domain.Project{{ID: "1", Name: "a"}}, !s.partial
}

func TestCachedSource_ReadThrough(t *testing.T) {
	src := &countingSource{videos: []domain.Video{{ID: "1", Title: "a"}}}
	cache := &memCache{data: map[string][]byte{}}
	cs := NewCachedSource(src, cache, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		videos, err := cs.ListVideos(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1", videos[0].ID)
	}
	assert.Equal(t, 1, src.calls)

	_, _ = cs.ListProjectVideos(ctx, "7")
	_, _ = cs.ListProjectVideos(ctx, "7")
	_, _ = cs.ListProjects(ctx)
	assert.Equal(t, 3, src.calls)
	assert.Contains(t, cache.data, fmt.Sprintf("%s%s", keyProjectFmt, "7"))
}

func TestCachedSource_CacheFailureFallsBack(t *testing.T) {
	src := &countingSource{videos: []domain.Video{{ID: "1"}}}
	cs := NewCachedSource(src, &memCache{data: map[string][]byte{}, failGet: true}, 0, nil)

	videos, err := cs.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	_, _ = cs.ListVideos(context.Background())
	assert.Equal(t, 2, src.calls)
}

func TestCachedSource_PartialNotCached(t *testing.T) {
	src := &countingSource{partial: true, videos: []domain.Video{{ID: "1"}}}
	cache := &memCache{data: map[string][]byte{}}
	cs := NewCachedSource(src, cache, time.Minute, nil)

	videos, err := cs.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	_, _ = cs.ListVideos(context.Background())
	_, _ = cs.ListProjects(context.Background())
	assert.Equal(t, 3, src.calls)
	assert.Zero(t, cache.sets)
}

func TestCachedSource_TruncatedPagingNotCached(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":   []interface{}{videoJSON("1", "a"), videoJSON("2", "b")},
			"paging": map[string]interface{}{"next": "/me/videos?page=2"},
		})
	}, 2, 10)

	videos, complete := client.FetchVideos(context.Background())
	assert.False(t, complete)
	assert.Len(t, videos, 2)

	cache := &memCache{data: map[string][]byte{}}
	cs := NewCachedSource(client, cache, time.Minute, nil)
	videos, err := cs.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 2)
	assert.Zero(t, cache.sets)
	assert.NotContains(t, cache.data, keyVideos)
}

func TestCachedSource_CompletePagingCached(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{videoJSON("1", "a")},
		})
	}, 2, 10)

	videos, complete := client.FetchVideos(context.Background())
	assert.True(t, complete)
	assert.Len(t, videos, 1)

	cache := &memCache{data: map[string][]byte{}}
	cs := NewCachedSource(client, cache, time.Minute, nil)
	_, err := cs.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.data, keyVideos)
}

func TestClient_NoTokenIsIncomplete(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1"}, nil)
	videos, complete := client.FetchVideos(context.Background())
	assert.False(t, complete)
	assert.Empty(t, videos)
}
