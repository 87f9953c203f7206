package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/adapters/driven/storage/memory"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/services"
	"github.com/quill-editor/quill/internal/logger"
	"github.com/quill-editor/quill/internal/normalisers/markdown"
)

// stubRemote implements driven.RemoteClient over an in-memory site.
type stubRemote struct {
	mu      sync.Mutex
	posts   map[int64]domain.RemotePost
	nextID  int64
	testErr error
	uploads []string
}

var _ driven.RemoteClient = (*stubRemote)(nil)

func newStubRemote() *stubRemote {
	return &stubRemote{posts: make(map[int64]domain.RemotePost), nextID: 100}
}

func (r *stubRemote) TestConnection(context.Context, domain.SiteCredentials) error {
	return r.testErr
}

func (r *stubRemote) FetchPosts(context.Context, domain.SiteCredentials, int) ([]domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RemotePost, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRemote) FetchPost(_ context.Context, _ domain.SiteCredentials, id int64) (*domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, &domain.HTTPError{StatusCode: 404}
	}
	return &p, nil
}

func (r *stubRemote) CreatePost(_ context.Context, _ domain.SiteCredentials, f domain.RemotePostFields) (*domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := domain.RemotePost{
		ID: r.nextID, Title: f.Title, Content: f.Content, Slug: f.Slug, Status: f.Status,
		Modified: time.Now().UTC().Truncate(time.Second),
	}
	r.posts[p.ID] = p
	return &p, nil
}

func (r *stubRemote) UpdatePost(_ context.Context, _ domain.SiteCredentials, id int64, f domain.RemotePostFields) (*domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	p.Title, p.Content, p.Slug, p.Status = f.Title, f.Content, f.Slug, f.Status
	p.Modified = time.Now().UTC().Truncate(time.Second)
	r.posts[id] = p
	return &p, nil
}

func (r *stubRemote) DeletePost(_ context.Context, _ domain.SiteCredentials, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *stubRemote) UploadMedia(_ context.Context, _ domain.SiteCredentials, _ []byte, filename, mimeType string) (*domain.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, filename+"|"+mimeType)
	return &domain.MediaItem{ID: int64(len(r.uploads)), URL: "https://blog.example/uploads/" + filename}, nil
}

func (r *stubRemote) put(p domain.RemotePost) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = p
}

// testEnv wires the real services over memory stores and a stub remote.
type testEnv struct {
	remote   *stubRemote
	posts    *memory.PostStore
	sessions *memory.SessionStore
	config   *memory.ConfigStore
	logs     *bytes.Buffer
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		remote:   newStubRemote(),
		posts:    memory.NewPostStore(),
		sessions: memory.NewSessionStore(),
		config:   memory.NewConfigStore(),
		logs:     &bytes.Buffer{},
	}
	sites := memory.NewSiteStore()
	secrets := memory.NewSecretStore()
	log := logger.New(env.logs, false)
	syncer := services.NewSyncOrchestrator(env.posts, sites, secrets, env.remote, log, 10)

	SetServices(Services{
		Posts:    services.NewPostService(env.posts, sites, secrets, env.remote, markdown.New(), log),
		Sites:    services.NewSiteService(sites, secrets, env.posts, env.remote, log, syncer),
		Sync:     syncer,
		Goals:    services.NewGoalTracker(env.sessions, 100),
		Media:    services.NewMediaService(sites, secrets, env.remote),
		Settings: services.NewSettingsService(env.config),
		Logger:   log,
	})
	t.Cleanup(func() { SetServices(Services{}) })
	return env
}

// connect connects the test site through the CLI.
func (e *testEnv) connect(t *testing.T) {
	t.Helper()
	_, err := executeCommandWithInput(t, "token\n", "site", "connect", "https://blog.example", "-u", "admin")
	require.NoError(t, err)
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, "", args...)
}

// executeCommandWithInput runs the root command with args, feeding input
// on stdin.
func executeCommandWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	var in io.Reader = bytes.NewBufferString(input)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default so one test's flags do
// not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
