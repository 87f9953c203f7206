package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage the connected site",
	Long:  `Connect to a WordPress-compatible site, show the connection, or disconnect.`,
}

var siteConnectCmd = &cobra.Command{
	Use:   "connect [site-url]",
	Short: "Connect to a site",
	Long: `Tests the credentials against the site and stores them.

The password or application token is read from the terminal without echo,
or from standard input when it is not a terminal. It is kept in the secret
store and never written to the database or config file.

Connecting to a different site disconnects the current one, which deletes
every local post.`,
	Args: cobra.ExactArgs(1),
	RunE: runSiteConnect,
}

var siteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the connected site",
	RunE:  runSiteShow,
}

var siteDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the site and delete local posts",
	Long: `Removes the site configuration and its stored secret, and deletes every
local post, including posts with edits that were never pushed.`,
	RunE: runSiteDisconnect,
}

var (
	connectUsername string
	connectWPCom    bool
	disconnectYes   bool
)

func init() {
	siteConnectCmd.Flags().StringVarP(&connectUsername, "username", "u", "", "Account username (required)")
	siteConnectCmd.Flags().BoolVar(&connectWPCom, "wpcom", false, "Use the WordPress.com API gateway")
	_ = siteConnectCmd.MarkFlagRequired("username")
	siteDisconnectCmd.Flags().BoolVarP(&disconnectYes, "yes", "y", false, "Do not ask for confirmation")

	siteCmd.AddCommand(siteConnectCmd)
	siteCmd.AddCommand(siteShowCmd)
	siteCmd.AddCommand(siteDisconnectCmd)
	rootCmd.AddCommand(siteCmd)
}

func runSiteConnect(cmd *cobra.Command, args []string) error {
	if siteService == nil {
		return errors.New("site service not configured")
	}

	cmd.Printf("Password or application token for %s: ", connectUsername)
	secret, err := readSecret(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading secret: %w", err)
	}

	site, err := siteService.Connect(commandContext(cmd), driving.ConnectRequest{
		SiteURL:        args[0],
		Username:       connectUsername,
		Secret:         secret,
		IsWordPressCom: connectWPCom,
	})
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}

	cmd.Printf("Connected to %s as %s.\n", site.SiteURL, site.Username)
	return nil
}

func runSiteShow(cmd *cobra.Command, _ []string) error {
	if siteService == nil {
		return errors.New("site service not configured")
	}

	site, err := siteService.Current(commandContext(cmd))
	if errors.Is(err, domain.ErrNoSite) {
		cmd.Println("No site connected.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get site: %w", err)
	}

	cmd.Printf("Site:      %s\n", site.SiteURL)
	cmd.Printf("Username:  %s\n", site.Username)
	if site.IsWordPressCom {
		cmd.Println("API:       WordPress.com gateway")
	}
	cmd.Printf("Connected: %s\n", site.CreatedAt.Local().Format("2006-01-02 15:04"))
	if site.LastSyncAt != nil {
		cmd.Printf("Last sync: %s\n", site.LastSyncAt.Local().Format("2006-01-02 15:04"))
	} else {
		cmd.Println("Last sync: never")
	}
	return nil
}

func runSiteDisconnect(cmd *cobra.Command, _ []string) error {
	if siteService == nil {
		return errors.New("site service not configured")
	}
	ctx := commandContext(cmd)

	if !disconnectYes {
		if postService != nil {
			posts, err := postService.List(ctx, domain.PostFilter{})
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}
			unsynced := 0
			for _, p := range posts {
				if p.HasUnsavedChanges() {
					unsynced++
				}
			}
			cmd.Printf("This deletes %d local posts, %d of them with unsynced changes.\n", len(posts), unsynced)
		}
		if !confirm(cmd, "Disconnect?") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	report, err := siteService.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("disconnect failed: %w", err)
	}

	cmd.Printf("Disconnected from %s. Deleted %d posts", report.SiteURL, report.PostsDeleted)
	if report.UnsyncedDiscarded > 0 {
		cmd.Printf(" (%d with unsynced changes)", report.UnsyncedDiscarded)
	}
	cmd.Println(".")
	return nil
}

// readSecret reads a secret without echo when in is a terminal, or one
// line otherwise.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question on the command's input. Anything but
// y or yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
