package update

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/keyflight/selfupdate/internal"
)

var (
	openFile = os.OpenFile
	rename   = os.Rename
)

// Apply replaces the file at opts.TargetPath (or the current executable, if not set)
// with the contents of the given io.Reader.
//
// Apply performs the following actions so that a reader of the target never sees a half-written file:
//
// 1. Creates a new file, /path/to/.target.new with the TargetMode and the contents of the reader
//
// 2. If configured, verifies the SHA256 checksum of what was written.
//
// 3. Renames /path/to/target to /path/to/.target.old (when the target already exists)
//
// 4. Renames /path/to/.target.new to /path/to/target and restores the modification time
//
// 5. If the final rename is successful, deletes /path/to/.target.old, returns no error. On Windows,
// the removal of /path/to/target.old fails while the file is in use, so Apply hides the old file instead.
//
// 6. If the final rename fails, attempts to roll back by renaming /path/to/.target.old
// back to /path/to/target.
//
// If the roll back operation fails, the file system is left in an inconsistent state (between steps 4 and 5) where
// there is no new file and the old file could not be moved to its original location.
// Applications can determine whether the rollback failed by calling RollbackError.
func Apply(update io.Reader, opts Options) error {
	// set defaults
	if opts.TargetMode == 0 {
		opts.TargetMode = 0o644
	}

	// get target path
	var err error
	if opts.TargetPath == "" {
		opts.TargetPath, err = internal.GetExecutablePath()
		if err != nil {
			return err
		}
	}

	// get the directory the target exists in
	updateDir := filepath.Dir(opts.TargetPath)
	filename := filepath.Base(opts.TargetPath)
	if err = os.MkdirAll(updateDir, 0o755); err != nil {
		return err
	}

	// Copy the contents of the update to a new file
	newPath := filepath.Join(updateDir, fmt.Sprintf(".%s.new", filename))
	if err = writeNew(newPath, update, opts); err != nil {
		_ = os.Remove(newPath)
		return err
	}

	_, statErr := os.Lstat(opts.TargetPath)
	targetExists := statErr == nil

	// this is where we'll move the existing file to so that we can swap in the updated replacement
	oldPath := opts.OldSavePath
	removeOld := opts.OldSavePath == ""
	if removeOld {
		oldPath = filepath.Join(updateDir, fmt.Sprintf(".%s.old", filename))
	}

	if targetExists {
		// delete any existing old file - this is necessary on Windows for two reasons:
		// 1. after a successful update, Windows can't remove the .old file because the process is still running
		// 2. windows rename operations fail if the destination file already exists
		_ = os.Remove(oldPath)

		// move the existing file to a new file in the same directory
		err = rename(opts.TargetPath, oldPath)
		if err != nil {
			_ = os.Remove(newPath)
			return err
		}
	}

	// move the new file in to take its place
	err = rename(newPath, opts.TargetPath)
	if err != nil {
		// move unsuccessful
		//
		// The filesystem is now in a bad state. We have successfully
		// moved the existing file to a new location, but we couldn't move the new
		// file to take its place.
		// Try to rollback by restoring the old file to its original path.
		_ = os.Remove(newPath)
		if !targetExists {
			return err
		}
		rerr := rename(oldPath, opts.TargetPath)
		if rerr != nil {
			return &rollbackError{err, rerr}
		}
		return err
	}

	if !opts.ModTime.IsZero() {
		_ = os.Chtimes(opts.TargetPath, opts.ModTime, opts.ModTime)
	}

	// move successful, remove the old file if needed
	if targetExists && removeOld {
		errRemove := os.Remove(oldPath)

		// windows has trouble with removing files in use, so hide it instead
		if errRemove != nil {
			_ = hideFile(oldPath)
		}
	}

	return nil
}

func writeNew(newPath string, update io.Reader, opts Options) error {
	fp, err := openFile(newPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, opts.TargetMode)
	if err != nil {
		return err
	}
	defer fp.Close()

	var h hash.Hash
	writer := io.Writer(fp)
	if opts.Checksum != nil {
		h = sha256.New()
		writer = io.MultiWriter(fp, h)
	}
	if _, err = io.Copy(writer, update); err != nil {
		return err
	}

	// if we don't call fp.Close(), windows won't let us move the new file
	// because the file will still be "in use"
	if err = fp.Close(); err != nil {
		return err
	}

	if h != nil {
		if err = opts.verifyChecksum(h.Sum(nil)); err != nil {
			return err
		}
	}

	// the umask may have stripped some bits from TargetMode
	return os.Chmod(newPath, opts.TargetMode)
}

// RollbackError takes an error value returned by Apply and returns the error, if any,
// that occurred when attempting to roll back from a failed update. Applications should
// always call this function on any non-nil errors returned by Apply.
//
// If no rollback was needed or if the rollback was successful, RollbackError returns nil,
// otherwise it returns the error encountered when trying to roll back.
func RollbackError(err error) error {
	if err == nil {
		return nil
	}
	var rerr *rollbackError
	if errors.As(err, &rerr) {
		return rerr.rollbackErr
	}
	return nil
}

type rollbackError struct {
	error             // original error
	rollbackErr error // error encountered while rolling back
}

func (e *rollbackError) Unwrap() error {
	return e.error
}
