package selfupdate

import (
	"errors"
	"fmt"
)

// Error
var (
	ErrIncorrectParameterOwner = errors.New("incorrect parameter \"owner\"")
	ErrIncorrectParameterRepo  = errors.New("incorrect parameter \"repo\"")
	ErrInvalidSlug             = errors.New("invalid slug format, expected 'owner/name'")
	ErrInvalidID               = errors.New("invalid repository ID")
	ErrSourceRequired          = errors.New("a release source is required")
	ErrNoReleases              = errors.New("no releases published")
	ErrNoUpdateAvailable       = errors.New("no update available")
	ErrSessionActive           = errors.New("another update session is active")
	ErrCancelled               = errors.New("update cancelled")
	ErrValidationAssetNotFound = errors.New("validation file not found")
)

// ErrorKind classifies the failure recorded in a session.
type ErrorKind string

const (
	KindCheck      ErrorKind = "check"
	KindFetch      ErrorKind = "fetch"
	KindValidation ErrorKind = "validation"
	KindArchive    ErrorKind = "archive"
	KindInstall    ErrorKind = "install"
	KindUnknown    ErrorKind = "unknown"
)

// CheckError is returned when the latest release could not be resolved.
// It is never returned for a registry without any release (see ErrNoReleases).
type CheckError struct {
	Err error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("update check failed: %v", e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }

// FetchError is returned when the release archive could not be downloaded or written.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", redactURL(e.URL), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError is returned when the downloaded archive does not match its published checksum.
type ValidationError struct {
	Filename string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation of %s failed: %v", e.Filename, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ArchiveError is returned when the archive is corrupt or cannot be read.
// No file of the installation has been touched when it is returned.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("invalid archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// InstallError is returned when a file could not be copied into the installation.
// Files copied before the failure are left in place.
type InstallError struct {
	Path string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("cannot install %s: %v", e.Path, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// ErrorDetail is the failure recorded in a session.
type ErrorDetail struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (d *ErrorDetail) Error() string {
	return d.Message
}

func (d *ErrorDetail) Unwrap() error { return d.Err }

// KindOf returns the ErrorKind matching the error.
func KindOf(err error) ErrorKind {
	var (
		checkErr      *CheckError
		fetchErr      *FetchError
		validationErr *ValidationError
		archiveErr    *ArchiveError
		installErr    *InstallError
	)
	switch {
	case errors.As(err, &checkErr):
		return KindCheck
	case errors.As(err, &fetchErr):
		return KindFetch
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &archiveErr):
		return KindArchive
	case errors.As(err, &installErr):
		return KindInstall
	}
	return KindUnknown
}

func newErrorDetail(err error) *ErrorDetail {
	return &ErrorDetail{
		Kind:    KindOf(err),
		Message: err.Error(),
		Err:     err,
	}
}
