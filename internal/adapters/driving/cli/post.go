package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
	"github.com/quill-editor/quill/internal/normalisers/html"
	"github.com/quill-editor/quill/internal/normalisers/markdown"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage local posts",
	Long: `Create, list, show, edit and delete local posts.

Post IDs may be abbreviated to any unique prefix.`,
}

var postNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a post",
	Long: `Creates a draft. When a site is connected the post is queued for upload
on the next push.

--content takes plain text; blank lines separate paragraphs.
--html takes block HTML as stored.`,
	RunE: runPostNew,
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, most recently modified first",
	RunE:  runPostList,
}

var postShowCmd = &cobra.Command{
	Use:   "show [post-id]",
	Short: "Show a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostShow,
}

var postEditCmd = &cobra.Command{
	Use:   "edit [post-id]",
	Short: "Change a post's fields",
	Long: `Applies a local edit. Only the flags given are changed.

Use 'quill edit' to open the block editor instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPostEdit,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete [post-id]",
	Short: "Delete a post",
	Long: `Deletes the local post. With --remote the post is also moved to the
trash on the site; if that fails the local post is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runPostDelete,
}

var postResolveCmd = &cobra.Command{
	Use:   "resolve [post-id]",
	Short: "Resolve a sync conflict",
	Long: `Settles a post that was edited both locally and on the site.

  --keep local   queue the local copy to overwrite the site on next push
  --keep remote  replace the local copy with the site's`,
	Args: cobra.ExactArgs(1),
	RunE: runPostResolve,
}

var postImportCmd = &cobra.Command{
	Use:   "import [file.md]",
	Short: "Create a post from a Markdown file",
	Long: `Converts a Markdown file into a post. The first level-one heading becomes
the title; without one the file name is used.

With --post the existing post is overwritten instead. With --watch the
command keeps running and re-imports the file every time it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runPostImport,
}

var (
	postTitle      string
	postContent    string
	postHTML       string
	postSlug       string
	postStatus     string
	postPublishAt  string
	listStatus     string
	listSyncStatus string
	listUnsynced   bool
	showHTML       bool
	deleteRemote   bool
	deleteYes      bool
	resolveKeep    string
	importPostID   string
	importWatch    bool
)

func init() {
	postNewCmd.Flags().StringVarP(&postTitle, "title", "t", "", "Post title")
	postNewCmd.Flags().StringVarP(&postContent, "content", "c", "", "Post body as plain text")
	postNewCmd.Flags().StringVar(&postHTML, "html", "", "Post body as HTML")

	postListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (draft, published, scheduled)")
	postListCmd.Flags().StringVar(&listSyncStatus, "sync-status", "", "Filter by sync status")
	postListCmd.Flags().BoolVar(&listUnsynced, "unsynced", false, "Only posts never uploaded")

	postShowCmd.Flags().BoolVar(&showHTML, "html", false, "Print the stored HTML")

	postEditCmd.Flags().StringVarP(&postTitle, "title", "t", "", "New title")
	postEditCmd.Flags().StringVarP(&postContent, "content", "c", "", "New body as plain text")
	postEditCmd.Flags().StringVar(&postHTML, "html", "", "New body as HTML")
	postEditCmd.Flags().StringVar(&postSlug, "slug", "", "New slug")
	postEditCmd.Flags().StringVar(&postStatus, "status", "", "New status (draft, published, scheduled)")
	postEditCmd.Flags().StringVar(&postPublishAt, "publish-at", "", "Publication date, RFC 3339")

	postDeleteCmd.Flags().BoolVar(&deleteRemote, "remote", false, "Also move the post to the site's trash")
	postDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")

	postResolveCmd.Flags().StringVar(&resolveKeep, "keep", "", "Side to keep: local or remote (required)")
	_ = postResolveCmd.MarkFlagRequired("keep")

	postImportCmd.Flags().StringVar(&importPostID, "post", "", "Overwrite this post instead of creating one")
	postImportCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "Re-import on every save")

	postCmd.AddCommand(postNewCmd)
	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postEditCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postResolveCmd)
	postCmd.AddCommand(postImportCmd)
	rootCmd.AddCommand(postCmd)
}

func runPostNew(cmd *cobra.Command, _ []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	content := postHTML
	if content == "" && postContent != "" {
		content = html.FromPlainText(postContent)
	}

	post, err := postService.Create(commandContext(cmd), postTitle, content)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	cmd.Printf("Created post %s (%s).\n", post.ID, post.SyncStatus)
	return nil
}

func runPostList(cmd *cobra.Command, _ []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	filter := domain.PostFilter{
		SyncStatus:   domain.SyncStatus(listSyncStatus),
		OnlyUnsynced: listUnsynced,
	}
	if listStatus != "" {
		status, err := domain.ParsePostStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = status
	}

	posts, err := postService.List(commandContext(cmd), filter)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) == 0 {
		cmd.Println("No posts.")
		return nil
	}

	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			shortID(p.ID),
			truncate(displayTitle(p), 40),
			p.Status.String(),
			string(p.SyncStatus),
			p.ModifiedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	cmd.Println(newTable("ID", "TITLE", "STATUS", "SYNC", "MODIFIED").Rows(rows...).String())
	return nil
}

func runPostShow(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}
	ctx := commandContext(cmd)

	post, err := findPost(ctx, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID:       %s\n", post.ID)
	cmd.Printf("Title:    %s\n", displayTitle(post))
	cmd.Printf("Slug:     %s\n", post.Slug)
	cmd.Printf("Status:   %s\n", post.Status)
	cmd.Printf("Sync:     %s (%s)\n", post.SyncStatus, post.SyncState())
	if post.RemoteID != nil {
		cmd.Printf("Remote:   %d\n", *post.RemoteID)
	}
	if post.PublishedAt != nil {
		cmd.Printf("Date:     %s\n", post.PublishedAt.Local().Format(time.RFC3339))
	}
	cmd.Printf("Modified: %s\n", post.ModifiedAt.Local().Format(time.RFC3339))
	cmd.Printf("Words:    %d\n", domain.CountWords(html.ToPlainText(post.Content)))
	cmd.Println()

	if showHTML {
		cmd.Println(post.Content)
	} else {
		cmd.Println(html.ToPlainText(post.Content))
	}
	return nil
}

func runPostEdit(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}
	ctx := commandContext(cmd)

	post, err := findPost(ctx, args[0])
	if err != nil {
		return err
	}

	var edit domain.PostEdit
	flags := cmd.Flags()
	if flags.Changed("title") {
		edit.Title = &postTitle
	}
	if flags.Changed("html") {
		edit.Content = &postHTML
	} else if flags.Changed("content") {
		content := html.FromPlainText(postContent)
		edit.Content = &content
	}
	if flags.Changed("slug") {
		edit.Slug = &postSlug
	}
	if flags.Changed("status") {
		status, err := domain.ParsePostStatus(postStatus)
		if err != nil {
			return err
		}
		edit.Status = &status
	}
	if flags.Changed("publish-at") {
		at, err := time.Parse(time.RFC3339, postPublishAt)
		if err != nil {
			return fmt.Errorf("%w: --publish-at: %v", domain.ErrInvalidInput, err)
		}
		edit.PublishedAt = &at
	}
	if edit.IsEmpty() {
		return errors.New("nothing to change: pass at least one of --title, --content, --html, --slug, --status, --publish-at")
	}

	updated, err := postService.Update(ctx, post.ID, edit)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	cmd.Printf("Updated post %s (%s).\n", shortID(updated.ID), updated.SyncStatus)
	return nil
}

func runPostDelete(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}
	ctx := commandContext(cmd)

	post, err := findPost(ctx, args[0])
	if err != nil {
		return err
	}

	if !deleteYes {
		if post.HasUnsavedChanges() && !deleteRemote {
			cmd.Println("This post has changes that were never pushed.")
		}
		if !confirm(cmd, fmt.Sprintf("Delete %q?", displayTitle(post))) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := postService.Delete(ctx, post.ID, deleteRemote); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	cmd.Printf("Deleted post %s.\n", shortID(post.ID))
	return nil
}

func runPostResolve(cmd *cobra.Command, args []string) error {
	if syncService == nil || postService == nil {
		return errors.New("sync service not configured")
	}
	ctx := commandContext(cmd)

	post, err := findPost(ctx, args[0])
	if err != nil {
		return err
	}

	resolved, err := syncService.Resolve(ctx, post.ID, driving.Resolution(resolveKeep))
	if err != nil {
		return fmt.Errorf("failed to resolve: %w", err)
	}

	cmd.Printf("Resolved post %s: kept %s copy (%s).\n", shortID(resolved.ID), resolveKeep, resolved.SyncStatus)
	return nil
}

func runPostImport(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}
	ctx := commandContext(cmd)
	path := args[0]

	postID := ""
	if importPostID != "" {
		post, err := findPost(ctx, importPostID)
		if err != nil {
			return err
		}
		postID = post.ID
	}

	post, err := importMarkdownFile(ctx, path, postID)
	if err != nil {
		return err
	}
	cmd.Printf("Imported %s into post %s.\n", path, post.ID)

	if !importWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", path)
	return watchFile(ctx, path, func() {
		updated, err := importMarkdownFile(ctx, path, post.ID)
		if err != nil {
			cmd.PrintErrf("Re-import failed: %v\n", err)
			return
		}
		cmd.Printf("Re-imported %s (%s).\n", path, updated.ModifiedAt.Local().Format("15:04:05"))
	})
}

// importMarkdownFile creates a post from path, or overwrites postID when set.
// A document without a level-one heading is titled after the file.
func importMarkdownFile(ctx context.Context, path, postID string) (*domain.Post, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	fallback := markdown.TitleFromFilename(path)
	var post *domain.Post
	if postID != "" {
		post, err = postService.ReplaceFromMarkdown(ctx, postID, source, fallback)
	} else {
		post, err = postService.ImportMarkdown(ctx, source, fallback)
	}
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}
	return post, nil
}

// findPost resolves a full post id or a unique prefix of one.
func findPost(ctx context.Context, idOrPrefix string) (*domain.Post, error) {
	post, err := postService.Get(ctx, idOrPrefix)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	posts, err := postService.List(ctx, domain.PostFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var matches []*domain.Post
	for _, p := range posts {
		if strings.HasPrefix(p.ID, idOrPrefix) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("post %s: %w", idOrPrefix, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: post id %q is ambiguous (%d matches)", domain.ErrInvalidInput, idOrPrefix, len(matches))
	}
}

func displayTitle(p *domain.Post) string {
	if strings.TrimSpace(p.Title) == "" {
		return "(untitled)"
	}
	return p.Title
}
