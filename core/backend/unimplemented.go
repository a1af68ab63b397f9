package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Unimplemented is the placeholder variant for declared backend kinds that
// have no implementation yet. It is constructable and initializable so
// provider rows of such kinds still resolve, but every operation fails with
// ErrNotImplemented.
type Unimplemented struct {
	kind Kind
}

// NewUnimplemented returns the placeholder variant for the given kind.
func NewUnimplemented(kind Kind) *Unimplemented {
	return &Unimplemented{kind: kind}
}

func (u *Unimplemented) Kind() Kind {
	return u.kind
}

func (u *Unimplemented) Initialize(providerID, name string, config json.RawMessage) error {
	return nil
}

func (u *Unimplemented) ListFiles(ctx context.Context, opts ListOptions) ([]FileDescriptor, error) {
	return nil, fmt.Errorf("%w: %s backend", ErrNotImplemented, u.kind)
}

func (u *Unimplemented) OpenRead(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("%w: %s backend", ErrNotImplemented, u.kind)
}

func (u *Unimplemented) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*FileDescriptor, error) {
	return nil, fmt.Errorf("%w: %s backend", ErrNotImplemented, u.kind)
}

func (u *Unimplemented) Delete(ctx context.Context, remoteID string) error {
	return fmt.Errorf("%w: %s backend", ErrNotImplemented, u.kind)
}

func (u *Unimplemented) TestConnection(ctx context.Context) bool {
	return false
}

func (u *Unimplemented) SupportsUpload() bool { return false }

func (u *Unimplemented) SupportsWatch() bool { return false }
