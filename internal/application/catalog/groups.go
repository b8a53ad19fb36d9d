package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"kbcportal/internal/domain"
)

// ResolveOrder looks ids up in videos, keeping the order of ids. IDs the
// host no longer knows are dropped.
func ResolveOrder(ids []string, videos []domain.Video) []domain.Video {
	return resolve(ids, indexVideos(videos))
}

func indexVideos(videos []domain.Video) map[string]domain.Video {
	byID := make(map[string]domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	return byID
}

func resolve(ids []string, byID map[string]domain.Video) []domain.Video {
	out := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// CourseMeta builds the presentational meta of a persisted course, falling
// back to DefaultMeta for blank fields.
func CourseMeta(c domain.Course) Meta {
	return MergeMeta(Meta{
		Title:       c.Title,
		Subtitle:    c.Subtitle,
		Instructor:  c.Instructor,
		Level:       c.Level,
		LastUpdated: c.LastUpdated,
		HeroVideoID: c.HeroVimeoID,
	})
}

// CourseGroup materializes one persisted course against the live library.
func CourseGroup(c domain.Course, orderedIDs []string, videos []domain.Video) Group {
	meta := CourseMeta(c)
	return newGroup(c.Slug, c.Title, meta, ResolveOrder(orderedIDs, videos))
}

// ManualGroups materializes persisted courses in the given order. orders
// maps a course ID to its ordered video IDs.
func ManualGroups(courses []domain.Course, orders map[uint][]string, videos []domain.Video) []Group {
	byID := indexVideos(videos)
	groups := make([]Group, 0, len(courses))
	for _, c := range courses {
		meta := CourseMeta(c)
		groups = append(groups, newGroup(c.Slug, c.Title, meta, resolve(orders[c.ID], byID)))
	}
	return groups
}

// FindGroup returns the group with slug, or the first group when there is
// no such slug. ok is false only when groups is empty.
func FindGroup(groups []Group, slug string) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	for _, g := range groups {
		if g.Slug == slug {
			return g, true
		}
	}
	return groups[0], true
}

const DefaultPlayerHost = "player.vimeo.com"

// EmbedURL builds the player iframe URL for a video id. hash is the private
// link hash and may be empty.
func EmbedURL(playerHost, videoID, hash string) string {
	if playerHost == "" {
		playerHost = DefaultPlayerHost
	}
	q := url.Values{}
	if hash != "" {
		q.Set("h", hash)
	}
	params := "title=0&byline=0&portrait=0"
	if enc := q.Encode(); enc != "" {
		params = enc + "&" + params
	}
	return fmt.Sprintf("https://%s/video/%s?%s", strings.TrimRight(playerHost, "/"), url.PathEscape(videoID), params)
}

// PlaybackHash returns the hash of the video with id, if known.
func PlaybackHash(videos []domain.Video, id string) string {
	for _, v := range videos {
		if v.ID == id && v.PlaybackHash != nil {
			return *v.PlaybackHash
		}
	}
	return ""
}
