package cfat

import "errors"

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrNoSpace is returned when the allocation table has no free cell left.
	ErrNoSpace = errors.New("cfat: no free blocks available")

	// ErrNameExists is returned when the target name already exists in the target directory.
	ErrNameExists = errors.New("cfat: name already exists")

	// ErrNameTooLong is returned when a name is longer than 11 bytes.
	ErrNameTooLong = errors.New("cfat: name too long")

	// ErrNotFound is returned when a path component does not resolve to an entry.
	ErrNotFound = errors.New("cfat: not found")

	// ErrNotADirectory is returned when a path element expected to be a directory is not.
	ErrNotADirectory = errors.New("cfat: not a directory")

	// ErrNotEmpty is returned when removal of a non-empty directory is attempted.
	ErrNotEmpty = errors.New("cfat: directory not empty")

	// ErrIsDirectory is returned when a byte-level read/write is attempted on a directory.
	ErrIsDirectory = errors.New("cfat: is a directory")

	// ErrExternalExists is returned when an extract target already exists outside the image.
	ErrExternalExists = errors.New("cfat: external file already exists")

	// ErrIO is returned when the underlying backing store failed.
	ErrIO = errors.New("cfat: backing store I/O error")

	// ErrCorrupt is returned when an invariant violation is detected during traversal.
	ErrCorrupt = errors.New("cfat: corrupt filesystem structure")

	// ErrNotLoaded names the state of a Filesystem that has not been
	// created or loaded. No function currently returns it: Create and
	// Load only hand out fully initialized values.
	ErrNotLoaded = errors.New("cfat: no filesystem loaded")

	// ErrExists is returned by Create when the target image file already exists.
	ErrExists = errors.New("cfat: image file already exists")
)
