package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/quill-editor/quill/internal/core/domain"
)

const (
	// HeaderTotalPages carries the page count of a list response.
	HeaderTotalPages = "X-WP-TotalPages"

	// MaxPerPage is the largest page size the API accepts.
	MaxPerPage = 100

	// MinPerPage is the floor of the page size backoff.
	MinPerPage = 1
)

// TotalPages reads the page count header. ok is false when the header is
// missing or malformed.
func TotalPages(h http.Header) (int, bool) {
	value := h.Get(HeaderTotalPages)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ClampPerPage keeps a page size inside the accepted range.
func ClampPerPage(perPage int) int {
	switch {
	case perPage < MinPerPage:
		return MinPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	default:
		return perPage
	}
}

func listQuery(page, perPage int, fields string) url.Values {
	return url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
		"status":   {"any"},
		"orderby":  {"date"},
		"order":    {"desc"},
		"_fields":  {fields},
	}
}

// pageFetcher fetches one page and reports the total page count, or 0
// when the server did not send one.
type pageFetcher[T any] func(ctx context.Context, page, perPage int) ([]T, int, error)

// collectPages walks a listing page by page. When a page is too large for
// the transport the page size is halved and the walk resumes at the page
// that contains the first unseen item, so nothing is skipped; items seen
// twice are dropped by id. Items collected before a failure are returned
// alongside the error.
func collectPages[T any](
	ctx context.Context, perPage int, id func(T) int64, fetch pageFetcher[T], onShrink func(from, to int),
) ([]T, error) {
	var (
		items  []T
		seen   = make(map[int64]bool)
		offset int
	)

	perPage = ClampPerPage(perPage)
	for {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		page := offset/perPage + 1
		batch, total, err := fetch(ctx, page, perPage)
		if errors.Is(err, domain.ErrResponseTooLarge) {
			if perPage <= MinPerPage {
				return items, err
			}
			smaller := max(perPage/2, MinPerPage)
			if onShrink != nil {
				onShrink(perPage, smaller)
			}
			perPage = smaller
			continue
		}
		if err != nil {
			return items, err
		}

		for _, item := range batch {
			if key := id(item); !seen[key] {
				seen[key] = true
				items = append(items, item)
			}
		}
		offset = (page-1)*perPage + len(batch)

		if len(batch) == 0 || len(batch) < perPage || (total > 0 && page >= total) {
			return items, nil
		}
	}
}

// FetchPosts returns every post on the site, newest first.
//
// Oversized pages are retried with half the page size down to one post
// per page. If even that fails, the client lists post ids only and
// fetches the missing posts one at a time.
func (c *Client) FetchPosts(
	ctx context.Context, creds domain.SiteCredentials, perPage int,
) ([]domain.RemotePost, error) {
	shrink := func(from, to int) {
		c.logf(domain.LogWarning, "response too large at per_page=%d, retrying with %d", from, to)
	}

	posts, err := collectPages(ctx, perPage, remotePostID, c.postPage(creds), shrink)
	if err == nil {
		return posts, nil
	}
	if !errors.Is(err, domain.ErrResponseTooLarge) {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	c.logf(domain.LogWarning, "listing still too large at per_page=%d, fetching posts individually", MinPerPage)
	posts, err = c.fetchIndividually(ctx, creds, perPage, posts)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	return posts, nil
}

// fetchIndividually lists ids, then fetches each post not already in have.
// The result follows the order of the id listing.
func (c *Client) fetchIndividually(
	ctx context.Context, creds domain.SiteCredentials, perPage int, have []domain.RemotePost,
) ([]domain.RemotePost, error) {
	ids, err := collectPages(ctx, perPage, func(id int64) int64 { return id }, c.idPage(creds), nil)
	if err != nil {
		return nil, fmt.Errorf("list post ids: %w", err)
	}

	known := make(map[int64]domain.RemotePost, len(have))
	for _, p := range have {
		known[p.ID] = p
	}

	posts := make([]domain.RemotePost, 0, len(ids))
	for _, id := range ids {
		if p, ok := known[id]; ok {
			posts = append(posts, p)
			continue
		}
		post, err := c.FetchPost(ctx, creds, id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	c.logf(domain.LogInfo, "fetched %d posts individually", len(posts)-len(have))
	return posts, nil
}

func (c *Client) postPage(creds domain.SiteCredentials) pageFetcher[domain.RemotePost] {
	return func(ctx context.Context, page, perPage int) ([]domain.RemotePost, int, error) {
		var wire []wirePost
		resp, err := c.getJSON(ctx, creds, "/posts", listQuery(page, perPage, postFields), "post list", &wire)
		if err != nil {
			return nil, 0, err
		}

		posts := make([]domain.RemotePost, 0, len(wire))
		for _, w := range wire {
			post, err := w.toDomain()
			if err != nil {
				return nil, 0, err
			}
			posts = append(posts, post)
		}

		total, _ := TotalPages(resp.header)
		return posts, total, nil
	}
}

func (c *Client) idPage(creds domain.SiteCredentials) pageFetcher[int64] {
	return func(ctx context.Context, page, perPage int) ([]int64, int, error) {
		resp, err := c.do(ctx, creds, request{
			method: http.MethodGet,
			path:   "/posts",
			query:  listQuery(page, perPage, "id"),
		})
		if err != nil {
			return nil, 0, err
		}

		var wire []wirePostID
		if err := json.Unmarshal(resp.body, &wire); err != nil {
			return nil, 0, &domain.DecodingError{What: "post id list", Err: err}
		}

		ids := make([]int64, len(wire))
		for i, w := range wire {
			ids[i] = w.ID
		}

		total, _ := TotalPages(resp.header)
		return ids, total, nil
	}
}

func remotePostID(p domain.RemotePost) int64 {
	return p.ID
}
