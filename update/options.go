package update

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Options for Apply update
type Options struct {
	// TargetPath defines the path to the file to update.
	// The empty string means 'the executable file of the running program'.
	TargetPath string

	// Create TargetPath replacement with this file mode. If zero, defaults to 0644.
	TargetMode os.FileMode

	// ModTime is set as the modification time of the replaced file. Zero leaves the current time.
	ModTime time.Time

	// SHA256 checksum of the new file to verify against. If nil, no verification is done.
	Checksum []byte

	// Store the old file at this path after a successful update.
	// The empty string means the old file will be removed after the update.
	OldSavePath string
}

// SetChecksumHex is a convenience method to set the Checksum property from its hexadecimal form.
func (o *Options) SetChecksumHex(checksum string) error {
	decoded, err := hex.DecodeString(checksum)
	if err != nil {
		return fmt.Errorf("invalid checksum %q: %w", checksum, err)
	}
	o.Checksum = decoded
	return nil
}

func (o *Options) verifyChecksum(checksum []byte) error {
	if !bytes.Equal(o.Checksum, checksum) {
		return fmt.Errorf("updated file has wrong checksum. Expected: %x, got: %x", o.Checksum, checksum)
	}
	return nil
}
