package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSiteURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"https kept", "https://blog.example.com", "https://blog.example.com", false},
		{"scheme added", "blog.example.com", "https://blog.example.com", false},
		{"trailing slash removed", "https://blog.example.com/", "https://blog.example.com", false},
		{"path kept", "https://example.com/blog/", "https://example.com/blog", false},
		{"query dropped", "https://example.com/?x=1#top", "https://example.com", false},
		{"whitespace trimmed", "  https://example.com  ", "https://example.com", false},
		{"http rejected", "http://example.com", "", true},
		{"ftp rejected", "ftp://example.com", "", true},
		{"empty", "", "", true},
		{"no host", "https://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSiteURL(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSiteConfiguration_SecretKey(t *testing.T) {
	site := &SiteConfiguration{ID: "abc-123"}
	assert.Equal(t, "app.quill.site.abc-123", site.SecretKey())
	assert.Equal(t, site.SecretKey(), SecretKey("abc-123"))
}

func TestSiteConfiguration_Credentials(t *testing.T) {
	site := &SiteConfiguration{ID: "id", SiteURL: "https://example.com", Username: "ann", IsWordPressCom: true}
	creds := site.Credentials("s3cret")

	assert.Equal(t, SiteCredentials{
		SiteURL:        "https://example.com",
		Username:       "ann",
		Secret:         "s3cret",
		IsWordPressCom: true,
	}, creds)
}

func TestRemoteStatusMapping(t *testing.T) {
	assert.Equal(t, RemoteStatusPublish, RemoteStatus(PostStatusPublished))
	assert.Equal(t, RemoteStatusFuture, RemoteStatus(PostStatusScheduled))
	assert.Equal(t, RemoteStatusDraft, RemoteStatus(PostStatusDraft))

	assert.Equal(t, PostStatusPublished, PostStatusFromRemote("publish"))
	assert.Equal(t, PostStatusScheduled, PostStatusFromRemote("future"))
	assert.Equal(t, PostStatusDraft, PostStatusFromRemote("pending"))
	assert.Equal(t, PostStatusDraft, PostStatusFromRemote("private"))
	assert.Equal(t, PostStatusDraft, PostStatusFromRemote(""))

	assert.True(t, HasLocalStatus(RemoteStatusPublish))
	assert.True(t, HasLocalStatus(""))
	assert.False(t, HasLocalStatus(RemoteStatusPending))
	assert.False(t, HasLocalStatus(RemoteStatusPrivate))
}
