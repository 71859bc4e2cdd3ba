package media

import "errors"

var (
	// ErrClosed is returned by a store that has been torn down.
	ErrClosed = errors.New("media store closed")
	// ErrIndexOutOfRange indicates a preview index outside the preview list.
	ErrIndexOutOfRange = errors.New("preview index out of range")
	// ErrPersistedPreview indicates an attempt to remove a stored media entry.
	ErrPersistedPreview = errors.New("persisted media cannot be removed individually")
	// ErrNoMediaRoot indicates reading from disk while no media root is configured.
	ErrNoMediaRoot = errors.New("reading local files is disabled")
	// ErrOutsideRoot indicates a path that resolves outside the media root.
	ErrOutsideRoot = errors.New("path is outside the media root")
)
