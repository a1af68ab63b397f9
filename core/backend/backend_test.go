package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"local", KindLocal, false},
		{"picker", KindPicker, false},
		{"s3", KindS3, false},
		{"webdav", KindWebDAV, false},
		{"S3", KindS3, false},
		{"Local", KindLocal, false},
		{"", "", true},
		{"tape", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMediaKindOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sunset.jpg", "photo"},
		{"SUNSET.JPG", "photo"},
		{"scan.tiff", "photo"},
		{"portrait.heic", "photo"},
		{"clip.mp4", "video"},
		{"old.mpeg", "video"},
		{"albums/2024/trip.mov", "video"},
		{"notes.txt", ""},
		{"archive.tar.gz", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MediaKindOf(tt.name), "name %q", tt.name)
	}
}

func TestDownload(t *testing.T) {
	l, root := newTestLocal(t)
	writeFile(t, root, "a.jpg", "raw bytes")

	data, err := Download(context.Background(), l, "a.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "raw bytes", string(data))

	_, err = Download(context.Background(), l, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnimplemented(t *testing.T) {
	u := NewUnimplemented(KindWebDAV)
	ctx := context.Background()

	assert.Equal(t, KindWebDAV, u.Kind())
	assert.NoError(t, u.Initialize("p1", "Shelf", nil))

	_, err := u.ListFiles(ctx, ListOptions{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = u.OpenRead(ctx, "x")
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = u.Upload(ctx, "x", nil, 0, "")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, u.Delete(ctx, "x"), ErrNotImplemented)

	assert.False(t, u.TestConnection(ctx))
	assert.False(t, u.SupportsUpload())
	assert.False(t, u.SupportsWatch())
}

func TestBackendInterfaceCompliance(t *testing.T) {
	var _ Backend = (*Local)(nil)
	var _ Backend = (*Picker)(nil)
	var _ Backend = (*S3)(nil)
	var _ Backend = (*Unimplemented)(nil)
	var _ Watcher = (*Local)(nil)

	// Unimplemented logger-free construction must not panic anywhere.
	assert.NotPanics(t, func() {
		newLocalBackend("./media", zap.NewNop())
	})
}
