package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
	htmltext "github.com/quill-editor/quill/internal/normalisers/html"
)

// Content formats accepted by the write tools.
const (
	formatText     = "text"
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// ListPostsInput is the input schema for the list_posts tool.
type ListPostsInput struct {
	Status     string `json:"status,omitempty" jsonschema:"only posts with this status: draft, published or scheduled"`
	SyncStatus string `json:"sync_status,omitempty" jsonschema:"only posts with this sync status, e.g. pending_update or conflict"`
	Unsynced   bool   `json:"unsynced,omitempty" jsonschema:"only posts never uploaded to the site"`
}

// ListPostsOutput is the output schema for the list_posts tool.
type ListPostsOutput struct {
	Posts []PostSummary `json:"posts"`
	Count int           `json:"count"`
}

// PostSummary describes a post without its content.
type PostSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	SyncStatus string `json:"sync_status"`
	ModifiedAt string `json:"modified_at"`
	Excerpt    string `json:"excerpt,omitempty"`
}

// GetPostInput is the input schema for the get_post tool.
type GetPostInput struct {
	ID string `json:"id" jsonschema:"the post id"`
}

// PostOutput is a post with its content.
type PostOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	SyncStatus string `json:"sync_status"`
	ModifiedAt string `json:"modified_at"`
	Slug       string `json:"slug,omitempty"`
	RemoteID   int64  `json:"remote_id,omitempty"`
	HTML       string `json:"html"`
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
}

// CreatePostInput is the input schema for the create_post tool.
type CreatePostInput struct {
	Title   string `json:"title,omitempty" jsonschema:"the post title; for markdown, a leading level-one heading is used when this is empty"`
	Content string `json:"content,omitempty" jsonschema:"the post body"`
	Format  string `json:"format,omitempty" jsonschema:"format of content: text (default), html or markdown"`
}

// UpdatePostInput is the input schema for the update_post tool.
type UpdatePostInput struct {
	ID      string  `json:"id" jsonschema:"the post id"`
	Title   *string `json:"title,omitempty" jsonschema:"new title"`
	Content *string `json:"content,omitempty" jsonschema:"new body, replacing the old one"`
	Format  string  `json:"format,omitempty" jsonschema:"format of content: text (default) or html"`
	Status  *string `json:"status,omitempty" jsonschema:"new status: draft, published or scheduled"`
}

// SyncInput is the input schema for the sync tool.
type SyncInput struct {
	Operation string `json:"operation,omitempty" jsonschema:"pull, push or run (pull then push, the default)"`
}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Discarded int    `json:"discarded"`
	Uploaded  int    `json:"uploaded"`
	Pushed    int    `json:"pushed"`
	Failed    int    `json:"failed"`
	LastError string `json:"last_error,omitempty"`
}

// ProgressInput is the input schema for the writing_progress tool.
type ProgressInput struct{}

// ProgressOutput is the output schema for the writing_progress tool.
type ProgressOutput struct {
	DailyGoal     int  `json:"daily_goal"`
	WordsToday    int  `json:"words_today"`
	WordsThisWeek int  `json:"words_this_week"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	GoalMet       bool `json:"goal_met"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_posts",
		Description: "List local blog posts, newest edits first",
	}, s.handleListPosts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_post",
		Description: "Read a post's title, metadata and content",
	}, s.handleGetPost)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_post",
		Description: "Create a local post; it is queued for upload when a site is connected",
	}, s.handleCreatePost)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_post",
		Description: "Change a local post's title, content or status",
	}, s.handleUpdatePost)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync",
		Description: "Pull posts from and push posts to the connected site",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "writing_progress",
		Description: "Words written today and this week against the daily goal",
	}, s.handleProgress)
}

func (s *Server) handleListPosts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListPostsInput,
) (*mcp.CallToolResult, ListPostsOutput, error) {
	filter := domain.PostFilter{OnlyUnsynced: input.Unsynced}
	if input.Status != "" {
		status, err := domain.ParsePostStatus(input.Status)
		if err != nil {
			return nil, ListPostsOutput{}, err
		}
		filter.Status = status
	}
	if input.SyncStatus != "" {
		filter.SyncStatus = domain.SyncStatus(input.SyncStatus)
	}

	posts, err := s.ports.Posts.List(ctx, filter)
	if err != nil {
		return nil, ListPostsOutput{}, err
	}

	output := ListPostsOutput{
		Posts: make([]PostSummary, len(posts)),
		Count: len(posts),
	}
	for i, p := range posts {
		output.Posts[i] = summarise(p)
	}
	return nil, output, nil
}

func (s *Server) handleGetPost(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPostInput,
) (*mcp.CallToolResult, PostOutput, error) {
	post, err := s.ports.Posts.Get(ctx, input.ID)
	if err != nil {
		return nil, PostOutput{}, err
	}
	return nil, postOutput(post), nil
}

func (s *Server) handleCreatePost(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreatePostInput,
) (*mcp.CallToolResult, PostOutput, error) {
	if input.Format == formatMarkdown {
		post, err := s.ports.Posts.ImportMarkdown(ctx, []byte(input.Content), "")
		if err != nil {
			return nil, PostOutput{}, err
		}
		if title := strings.TrimSpace(input.Title); title != "" {
			post, err = s.ports.Posts.Update(ctx, post.ID, domain.PostEdit{Title: &title})
			if err != nil {
				return nil, PostOutput{}, err
			}
		}
		return nil, postOutput(post), nil
	}

	content, err := toHTML(input.Content, input.Format)
	if err != nil {
		return nil, PostOutput{}, err
	}
	post, err := s.ports.Posts.Create(ctx, input.Title, content)
	if err != nil {
		return nil, PostOutput{}, err
	}
	return nil, postOutput(post), nil
}

func (s *Server) handleUpdatePost(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdatePostInput,
) (*mcp.CallToolResult, PostOutput, error) {
	edit := domain.PostEdit{Title: input.Title}
	if input.Content != nil {
		content, err := toHTML(*input.Content, input.Format)
		if err != nil {
			return nil, PostOutput{}, err
		}
		edit.Content = &content
	}
	if input.Status != nil {
		status, err := domain.ParsePostStatus(*input.Status)
		if err != nil {
			return nil, PostOutput{}, err
		}
		edit.Status = &status
	}
	if edit.IsEmpty() {
		return nil, PostOutput{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	post, err := s.ports.Posts.Update(ctx, input.ID, edit)
	if err != nil {
		return nil, PostOutput{}, err
	}
	return nil, postOutput(post), nil
}

func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if s.ports.Sync == nil || s.ports.Sites == nil {
		return nil, SyncOutput{}, ErrSyncUnavailable
	}

	var op func(context.Context, string) (*driving.SyncReport, error)
	switch input.Operation {
	case "pull":
		op = s.ports.Sync.Pull
	case "push":
		op = s.ports.Sync.Push
	case "", "run":
		op = s.ports.Sync.Sync
	default:
		return nil, SyncOutput{}, fmt.Errorf("%w: unknown sync operation %q", domain.ErrInvalidInput, input.Operation)
	}

	site, err := s.ports.Sites.Current(ctx)
	if err != nil {
		return nil, SyncOutput{}, err
	}
	report, err := op(ctx, site.ID)
	if err != nil {
		return nil, SyncOutput{}, err
	}

	output := SyncOutput{
		Created:   report.Created,
		Updated:   report.Updated,
		Discarded: report.Discarded,
		Uploaded:  report.Uploaded,
		Pushed:    report.Pushed,
		Failed:    report.Failed,
	}
	if report.LastError != nil {
		output.LastError = report.LastError.Error()
	}
	return nil, output, nil
}

func (s *Server) handleProgress(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ProgressInput,
) (*mcp.CallToolResult, ProgressOutput, error) {
	if s.ports.Goals == nil {
		return nil, ProgressOutput{}, ErrGoalsUnavailable
	}
	p, err := s.ports.Goals.Progress(ctx, s.now())
	if err != nil {
		return nil, ProgressOutput{}, err
	}
	return nil, ProgressOutput{
		DailyGoal:     p.DailyGoal,
		WordsToday:    p.WordsToday,
		WordsThisWeek: p.WordsThisWeek,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		GoalMet:       p.GoalMet(),
	}, nil
}

// toHTML converts tool input in the given format to post HTML.
func toHTML(content, format string) (string, error) {
	switch format {
	case "", formatText:
		return htmltext.FromPlainText(content), nil
	case formatHTML:
		return content, nil
	default:
		return "", fmt.Errorf("%w: unsupported content format %q", domain.ErrInvalidInput, format)
	}
}

func summarise(p *domain.Post) PostSummary {
	return PostSummary{
		ID:         p.ID,
		Title:      p.Title,
		Status:     string(p.Status),
		SyncStatus: string(p.SyncStatus),
		ModifiedAt: p.ModifiedAt.Format(time.RFC3339),
		Excerpt:    p.Excerpt,
	}
}

func postOutput(p *domain.Post) PostOutput {
	text := htmltext.ToPlainText(p.Content)
	out := PostOutput{
		ID:         p.ID,
		Title:      p.Title,
		Status:     string(p.Status),
		SyncStatus: string(p.SyncStatus),
		ModifiedAt: p.ModifiedAt.Format(time.RFC3339),
		Slug:       p.Slug,
		HTML:       p.Content,
		Text:       text,
		WordCount:  domain.CountWords(text),
	}
	if p.RemoteID != nil {
		out.RemoteID = *p.RemoteID
	}
	return out
}
