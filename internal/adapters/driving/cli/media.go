package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/blocks"
	"github.com/quill-editor/quill/internal/core/domain"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage media on the connected site",
}

var mediaUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a file to the site's media library",
	Long: `Uploads a file and prints its id and URL. The MIME type is derived from the
file name unless --mime is given.

With --post an image block pointing at the upload is appended to that post.`,
	Args: cobra.ExactArgs(1),
	RunE: runMediaUpload,
}

var (
	mediaMIME   string
	mediaPostID string
	mediaAlt    string
)

func init() {
	mediaUploadCmd.Flags().StringVar(&mediaMIME, "mime", "", "MIME type")
	mediaUploadCmd.Flags().StringVar(&mediaPostID, "post", "", "Append an image block to this post")
	mediaUploadCmd.Flags().StringVar(&mediaAlt, "alt", "", "Alternative text for the image block")

	mediaCmd.AddCommand(mediaUploadCmd)
	rootCmd.AddCommand(mediaCmd)
}

func runMediaUpload(cmd *cobra.Command, args []string) error {
	if mediaService == nil {
		return errors.New("media service not configured")
	}
	ctx := commandContext(cmd)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	item, err := mediaService.Upload(ctx, filepath.Base(args[0]), data, mediaMIME)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	cmd.Printf("Uploaded media %d: %s\n", item.ID, item.URL)

	if mediaPostID == "" {
		return nil
	}
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := findPost(ctx, mediaPostID)
	if err != nil {
		return err
	}

	content := appendImage(post.Content, item.URL, mediaAlt)
	if _, err := postService.Update(ctx, post.ID, domain.PostEdit{Content: &content}); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	cmd.Printf("Added image to post %s.\n", shortID(post.ID))
	return nil
}

// appendImage adds an image block after the existing content. An
// empty document keeps only the image.
func appendImage(content, src, alt string) string {
	image := blocks.New(blocks.TypeImage, "")
	image.Attributes = blocks.Attributes{
		blocks.AttrSrc: blocks.String(src),
		blocks.AttrAlt: blocks.String(alt),
	}

	existing := blocks.Parse(content)
	if len(existing) == 1 && existing[0].IsEmpty() {
		existing = nil
	}
	return blocks.Serialize(append(existing, image))
}
