package wordpress

import (
	"fmt"
	"strings"
	"time"

	"github.com/quill-editor/quill/internal/core/domain"
)

// dateLayout is the timestamp format of the *_gmt fields.
const dateLayout = "2006-01-02T15:04:05"

// postFields selects the fields returned by list requests.
const postFields = "id,date_gmt,modified_gmt,slug,status,title,content,excerpt,link"

type renderedField struct {
	Rendered string `json:"rendered"`
}

type wirePost struct {
	ID          int64         `json:"id"`
	DateGMT     string        `json:"date_gmt"`
	ModifiedGMT string        `json:"modified_gmt"`
	Slug        string        `json:"slug"`
	Status      string        `json:"status"`
	Link        string        `json:"link"`
	Title       renderedField `json:"title"`
	Content     renderedField `json:"content"`
	Excerpt     renderedField `json:"excerpt"`
}

type wirePostID struct {
	ID int64 `json:"id"`
}

type wirePostFields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Slug    string `json:"slug,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	DateGMT string `json:"date_gmt,omitempty"`
}

type wireMedia struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

type wireUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseTime parses a remote timestamp. The *_gmt layout without a zone is
// read as UTC; RFC 3339 is accepted as a fallback. An empty value yields
// the zero time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatTime formats t in the *_gmt layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func (w wirePost) toDomain() (domain.RemotePost, error) {
	date, err := ParseTime(w.DateGMT)
	if err != nil {
		return domain.RemotePost{}, &domain.DecodingError{What: fmt.Sprintf("post %d date", w.ID), Err: err}
	}
	modified, err := ParseTime(w.ModifiedGMT)
	if err != nil {
		return domain.RemotePost{}, &domain.DecodingError{What: fmt.Sprintf("post %d modified", w.ID), Err: err}
	}

	return domain.RemotePost{
		ID:       w.ID,
		Title:    w.Title.Rendered,
		Content:  w.Content.Rendered,
		Excerpt:  w.Excerpt.Rendered,
		Slug:     w.Slug,
		Status:   w.Status,
		Link:     w.Link,
		Date:     date,
		Modified: modified,
	}, nil
}

func fieldsToWire(f domain.RemotePostFields) wirePostFields {
	out := wirePostFields{
		Title:   f.Title,
		Content: f.Content,
		Status:  f.Status,
		Slug:    f.Slug,
		Excerpt: f.Excerpt,
	}
	if f.Date != nil {
		out.DateGMT = FormatTime(*f.Date)
	}
	return out
}
