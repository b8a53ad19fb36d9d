// Package vimeo reads the course video library from the Vimeo REST API.
//
// Every list call absorbs upstream failures: a missing token, a transport
// error, a non-2xx status or a malformed body is logged and the call returns
// whatever it collected so far with a nil error. Pages render with fewer
// videos instead of failing.
package vimeo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kbcportal/internal/application/catalog"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
)

const (
	DefaultBaseURL  = "https://api.vimeo.com"
	DefaultPerPage  = 50
	DefaultMaxPages = 50
	DefaultTimeout  = 10 * time.Second

	acceptHeader = "application/vnd.vimeo.*+json;version=3.4"
	untitled     = "Untitled"
)

var hexPattern = regexp.MustCompile(`^[a-fA-F0-9]+$`)

// VideoSource is what the use cases need from the video host.
type VideoSource interface {
	ListVideos(ctx context.Context) ([]domain.Video, error)
	ListProjectVideos(ctx context.Context, projectID string) ([]domain.Video, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// PagedSource is VideoSource with the absorbed failures made visible:
// complete is false when paging stopped on an upstream failure, so the
// result may be a prefix of the library.
type PagedSource interface {
	FetchVideos(ctx context.Context) (videos []domain.Video, complete bool)
	FetchProjectVideos(ctx context.Context, projectID string) (videos []domain.Video, complete bool)
	FetchProjects(ctx context.Context) (projects []domain.Project, complete bool)
}

type Options struct {
	BaseURL  string
	Token    string
	PerPage  int
	MaxPages int
	Timeout  time.Duration
}

type Client struct {
	baseURL  string
	token    string
	perPage  int
	maxPages int
	http     *http.Client
	log      *logger.Logger
}

func NewClient(opts Options, log *logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		perPage:  opts.PerPage,
		maxPages: opts.MaxPages,
		http:     &http.Client{Timeout: opts.Timeout},
		log:      log.With("component", "vimeo"),
	}
}

type apiPicture struct {
	BaseLink string `json:"base_link"`
	Sizes    []struct {
		Link string `json:"link"`
	} `json:"sizes"`
}

type apiVideo struct {
	URI         string      `json:"uri"`
	Name        *string     `json:"name"`
	Duration    float64     `json:"duration"`
	Description *string     `json:"description"`
	Link        *string     `json:"link"`
	Pictures    *apiPicture `json:"pictures"`
}

type apiProject struct {
	URI  string  `json:"uri"`
	Name *string `json:"name"`
}

type pagedResponse struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Next *string `json:"next"`
	} `json:"paging"`
}

// ListVideos returns the whole library, newest first.
func (c *Client) ListVideos(ctx context.Context) ([]domain.Video, error) {
	videos, _ := c.FetchVideos(ctx)
	return videos, nil
}

func (c *Client) ListProjectVideos(ctx context.Context, projectID string) ([]domain.Video, error) {
	videos, _ := c.FetchProjectVideos(ctx, projectID)
	return videos, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, _ := c.FetchProjects(ctx)
	return projects, nil
}

func (c *Client) FetchVideos(ctx context.Context) ([]domain.Video, bool) {
	return c.listVideos(ctx, "/me/videos")
}

func (c *Client) FetchProjectVideos(ctx context.Context, projectID string) ([]domain.Video, bool) {
	if projectID == "" {
		return []domain.Video{}, true
	}
	return c.listVideos(ctx, "/me/projects/"+url.PathEscape(projectID)+"/videos")
}

func (c *Client) FetchProjects(ctx context.Context) ([]domain.Project, bool) {
	raw, complete := c.fetchPaged(ctx, "/me/projects", false)
	projects := make([]domain.Project, 0, len(raw))
	for _, item := range raw {
		var p apiProject
		if err := json.Unmarshal(item, &p); err != nil {
			c.log.Warn("skip malformed project", "error", err)
			continue
		}
		id := lastSegment(p.URI)
		if id == "" {
			continue
		}
		name := untitled
		if p.Name != nil {
			name = *p.Name
		}
		projects = append(projects, domain.Project{ID: id, Name: name})
	}
	return projects, complete
}

// GetVideo fetches one video. A miss or an upstream failure yields nil.
func (c *Client) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	if id == "" {
		return nil, nil
	}
	body, ok := c.fetch(ctx, "/videos/"+url.PathEscape(id))
	if !ok {
		return nil, nil
	}
	var v apiVideo
	if err := json.Unmarshal(body, &v); err != nil {
		c.log.Warn("malformed video response", "video_id", id, "error", err)
		return nil, nil
	}
	video := normalizeVideo(v)
	if video.ID == "" {
		video.ID = id
	}
	return &video, nil
}

// ListVideosByIDs returns the library entries named by ids in ids order.
// Unknown ids are dropped.
func (c *Client) ListVideosByIDs(ctx context.Context, ids []string) ([]domain.Video, error) {
	all, _ := c.ListVideos(ctx)
	return catalog.ResolveOrder(ids, all), nil
}

func (c *Client) listVideos(ctx context.Context, path string) ([]domain.Video, bool) {
	raw, complete := c.fetchPaged(ctx, path, true)
	videos := make([]domain.Video, 0, len(raw))
	for _, item := range raw {
		var v apiVideo
		if err := json.Unmarshal(item, &v); err != nil {
			c.log.Warn("skip malformed video", "error", err)
			continue
		}
		videos = append(videos, normalizeVideo(v))
	}
	return videos, complete
}

// fetchPaged collects page data until the last page, a short page or
// maxPages. complete is false when a request or a page body failed.
func (c *Client) fetchPaged(ctx context.Context, path string, sorted bool) ([]json.RawMessage, bool) {
	var all []json.RawMessage
	for page := 1; page <= c.maxPages; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(c.perPage))
		q.Set("page", strconv.Itoa(page))
		if sorted {
			q.Set("sort", "date")
			q.Set("direction", "desc")
		}

		body, ok := c.fetch(ctx, path+"?"+q.Encode())
		if !ok {
			return all, false
		}
		var resp pagedResponse
		if err := json.Unmarshal(body, &resp); err != nil || resp.Data == nil {
			c.log.Warn("malformed page", "path", path, "page", page, "error", err)
			return all, false
		}
		all = append(all, resp.Data...)

		hasNext := resp.Paging.Next != nil && *resp.Paging.Next != ""
		if !hasNext || len(resp.Data) < c.perPage {
			break
		}
	}
	return all, true
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, bool) {
	if c.token == "" {
		c.log.Debug("no access token, skipping request", "path", path)
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.log.Error("build request", "path", path, "error", err)
		return nil, false
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "path", path, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("unexpected status", "path", path, "status", resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("read body", "path", path, "error", err)
		return nil, false
	}
	return body, true
}

func normalizeVideo(v apiVideo) domain.Video {
	title := untitled
	if v.Name != nil {
		title = *v.Name
	}
	return domain.Video{
		ID:              lastSegment(v.URI),
		Title:           title,
		DurationSeconds: v.Duration,
		Description:     v.Description,
		Link:            v.Link,
		ThumbnailURL:    thumbnail(v.Pictures),
		PlaybackHash:    parseHash(v.Link),
	}
}

func thumbnail(p *apiPicture) *string {
	if p == nil {
		return nil
	}
	if p.BaseLink != "" {
		link := p.BaseLink
		return &link
	}
	if n := len(p.Sizes); n > 0 && p.Sizes[n-1].Link != "" {
		link := p.Sizes[n-1].Link
		return &link
	}
	return nil
}

func parseHash(link *string) *string {
	if link == nil || *link == "" {
		return nil
	}
	last := lastSegment(*link)
	if !hexPattern.MatchString(last) {
		return nil
	}
	return &last
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

