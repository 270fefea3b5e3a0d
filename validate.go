package selfupdate

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

// ErrChecksumMismatch is wrapped by ChecksumError
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Validator represents an interface which enables additional validation of releases.
type Validator interface {
	// Validate validates the release content against an additional asset bytes.
	// See SHAValidator, ChecksumValidator or ECDSAValidator for more information.
	Validate(filename string, release io.Reader, asset []byte) error
	// GetValidationAssetName returns the additional asset name containing the validation checksum.
	// The asset containing the checksum can be based on the release asset name
	GetValidationAssetName(releaseFilename string) string
}

// ChecksumError provides details about a checksum verification failure.
type ChecksumError struct {
	Filename string
	Expected string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("sha256 validation of %s failed: expected=%q, got=%q", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

//=====================================================================================================================

// SHAValidator specifies a SHA256 validator for additional file validation
// before updating.
type SHAValidator struct {
}

// Validate checks the SHA256 sum of the release against the contents of an
// additional asset file (the hash, optionally followed by the filename).
func (v *SHAValidator) Validate(filename string, release io.Reader, asset []byte) error {
	fields := strings.Fields(string(asset))
	if len(fields) == 0 || len(fields[0]) != sha256.Size*2 {
		return fmt.Errorf("incorrect checksum file format for %q", filename)
	}
	return compareHash(filename, release, fields[0])
}

// GetValidationAssetName returns the asset name for SHA256 validation.
func (v *SHAValidator) GetValidationAssetName(releaseFilename string) string {
	return releaseFilename + ".sha256"
}

//=====================================================================================================================

// ChecksumValidator is a SHA256 checksum validator where all the validation hash are in a single file (one per line)
type ChecksumValidator struct {
	// UniqueFilename is the name of the global file containing all the checksums
	// Usually "checksums.txt", "SHA256SUMS", etc.
	UniqueFilename string
}

// Validate the SHA256 sum of the release against the contents of an
// additional asset file containing all the checksums (one file per line).
func (v *ChecksumValidator) Validate(filename string, release io.Reader, asset []byte) error {
	hash, err := findChecksum(filename, asset)
	if err != nil {
		return err
	}
	return compareHash(filename, release, hash)
}

func findChecksum(filename string, content []byte) (string, error) {
	// check if the file has windows line ending (probably better than just testing the platform)
	crlf := []byte("\r\n")
	lf := []byte("\n")
	eol := lf
	if bytes.Contains(content, crlf) {
		eol = crlf
	}
	lines := bytes.Split(content, eol)
	for _, line := range lines {
		// skip empty line
		if len(line) == 0 {
			continue
		}
		parts := bytes.Split(line, []byte("  "))
		if len(parts) != 2 {
			return "", errors.New("incorrect checksum file format: checksum and file not separated by 2 spaces")
		}
		// sha256sum marks binary mode with a leading '*'
		if strings.TrimPrefix(string(parts[1]), "*") == filename {
			return string(parts[0]), nil
		}
	}
	return "", fmt.Errorf("hash for file %q not found in checksum file", filename)
}

// GetValidationAssetName returns the unique asset name for SHA256 validation.
func (v *ChecksumValidator) GetValidationAssetName(releaseFilename string) string {
	return v.UniqueFilename
}

func compareHash(filename string, release io.Reader, expected string) error {
	h := sha256.New()
	if _, err := io.Copy(h, release); err != nil {
		return fmt.Errorf("cannot read %s: %w", filename, err)
	}
	calculatedHash := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(calculatedHash, expected) {
		return &ChecksumError{
			Filename: filename,
			Expected: strings.ToLower(expected),
			Got:      calculatedHash,
		}
	}
	return nil
}

//=====================================================================================================================

// ECDSAValidator specifies a ECDSA validator for additional file validation
// before updating.
type ECDSAValidator struct {
	PublicKey *ecdsa.PublicKey
}

// Validate checks the ECDSA signature the release against the signature
// contained in an additional asset file.
func (v *ECDSAValidator) Validate(filename string, input io.Reader, signature []byte) error {
	if v.PublicKey == nil {
		return errors.New("ecdsa: no public key")
	}
	h := sha256.New()
	if _, err := io.Copy(h, input); err != nil {
		return fmt.Errorf("cannot read %s: %w", filename, err)
	}

	var rs struct {
		R *big.Int
		S *big.Int
	}
	if _, err := asn1.Unmarshal(signature, &rs); err != nil {
		return fmt.Errorf("failed to unmarshal ecdsa signature: %v", err)
	}

	if !ecdsa.Verify(v.PublicKey, h.Sum([]byte{}), rs.R, rs.S) {
		return fmt.Errorf("ecdsa: signature verification failed")
	}

	return nil
}

// GetValidationAssetName returns the asset name for ECDSA validation.
func (v *ECDSAValidator) GetValidationAssetName(releaseFilename string) string {
	return releaseFilename + ".sig"
}

//=====================================================================================================================

// validateFile runs the validator over the downloaded archive.
func validateFile(validator Validator, filename, archivePath string, asset []byte) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return &ValidationError{Filename: filename, Err: err}
	}
	defer file.Close()

	if err := validator.Validate(filename, file, asset); err != nil {
		return &ValidationError{Filename: filename, Err: err}
	}
	return nil
}

// Verify interface
var (
	_ Validator = &SHAValidator{}
	_ Validator = &ChecksumValidator{}
	_ Validator = &ECDSAValidator{}
)
