package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

var errUnsafePath = errors.New("entry escapes the extraction directory")

var (
	fileTypes = []struct {
		ext     string
		extract func(ctx context.Context, src *os.File, dest string) error
	}{
		{".zip", unzip},
		{".tar.gz", untargz},
		{".tgz", untargz},
		{".tar.xz", untarxz},
		{".txz", untarxz},
		{".tar.bz2", untarbz2},
		{".tbz2", untarbz2},
		{".tar", untarPlain},
	}

	// magic numbers used when the archive name carries no extension (zipball downloads)
	fileSignatures = []struct {
		offset    int
		signature []byte
		ext       string
	}{
		{0, []byte("PK\x03\x04"), ".zip"},
		{0, []byte{0x1f, 0x8b}, ".tar.gz"},
		{0, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, ".tar.xz"},
		{0, []byte("BZh"), ".tar.bz2"},
		{257, []byte("ustar"), ".tar"},
	}
)

// ExtractArchive extracts every entry of the archive into dest.
// The format is detected from the archive file name ('.zip', '.tar.gz', '.tgz',
// '.tar.xz', '.tar.bz2' and '.tar' are supported) or, failing that, from its content.
// Any failure is returned as an *ArchiveError, or ErrCancelled when ctx is done.
func ExtractArchive(ctx context.Context, archivePath, dest string) error {
	src, err := os.Open(archivePath)
	if err != nil {
		return &ArchiveError{Path: archivePath, Err: err}
	}
	defer src.Close()

	ext, err := detectArchiveType(src, archivePath)
	if err != nil {
		return &ArchiveError{Path: archivePath, Err: err}
	}
	for _, fileType := range fileTypes {
		if fileType.ext != ext {
			continue
		}
		log.Printf("Extracting %s archive %q", strings.TrimPrefix(ext, "."), filepath.Base(archivePath))
		err = fileType.extract(ctx, src, dest)
		if err == nil || errors.Is(err, ErrCancelled) {
			return err
		}
		var archiveErr *ArchiveError
		if errors.As(err, &archiveErr) {
			return err
		}
		return &ArchiveError{Path: archivePath, Err: err}
	}
	return &ArchiveError{Path: archivePath, Err: fmt.Errorf("unsupported archive type %q", ext)}
}

func detectArchiveType(src io.ReadSeeker, archivePath string) (string, error) {
	name := strings.ToLower(filepath.Base(archivePath))
	for _, fileType := range fileTypes {
		if strings.HasSuffix(name, fileType.ext) {
			return fileType.ext, nil
		}
	}

	header := make([]byte, 512)
	n, err := io.ReadFull(src, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("cannot read archive header: %w", err)
	}
	header = header[:n]
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	for _, sig := range fileSignatures {
		end := sig.offset + len(sig.signature)
		if len(header) >= end && bytes.Equal(header[sig.offset:end], sig.signature) {
			log.Printf("Archive %q detected as %s from its content", name, sig.ext)
			return sig.ext, nil
		}
	}
	return "", errors.New("unknown archive format")
}

func unzip(ctx context.Context, src *os.File, dest string) error {
	stat, err := src.Stat()
	if err != nil {
		return err
	}
	z, err := zip.NewReader(src, stat.Size())
	if err != nil {
		return fmt.Errorf("failed to decompress zip file: %w", err)
	}

	// check all the paths before writing anything
	for _, file := range z.File {
		if _, err := safeJoin(dest, file.Name); err != nil {
			return &ArchiveError{Path: file.Name, Err: err}
		}
	}

	for _, file := range z.File {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		target, _ := safeJoin(dest, file.Name)
		info := file.FileInfo()
		if info.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			log.Printf("Skipping non-regular zip entry %q", file.Name)
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return &ArchiveError{Path: file.Name, Err: err}
		}
		err = writeEntry(target, rc, info.Mode(), file.Modified)
		rc.Close()
		if err != nil {
			return &ArchiveError{Path: file.Name, Err: err}
		}
	}
	return nil
}

func untargz(ctx context.Context, src *os.File, dest string) error {
	gz, err := gzip.NewReader(bufio.NewReader(src))
	if err != nil {
		return fmt.Errorf("failed to decompress .tar.gz file: %w", err)
	}
	defer gz.Close()

	return unarchiveTar(ctx, gz, dest)
}

func untarxz(ctx context.Context, src *os.File, dest string) error {
	xzip, err := xz.NewReader(bufio.NewReader(src))
	if err != nil {
		return fmt.Errorf("failed to decompress .tar.xz file: %w", err)
	}

	return unarchiveTar(ctx, xzip, dest)
}

func untarbz2(ctx context.Context, src *os.File, dest string) error {
	return unarchiveTar(ctx, bzip2.NewReader(bufio.NewReader(src)), dest)
}

func untarPlain(ctx context.Context, src *os.File, dest string) error {
	return unarchiveTar(ctx, src, dest)
}

func unarchiveTar(ctx context.Context, src io.Reader, dest string) error {
	t := tar.NewReader(src)
	for {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		h, err := t.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to unarchive tar file: %w", err)
		}
		target, err := safeJoin(dest, h.Name)
		if err != nil {
			return &ArchiveError{Path: h.Name, Err: err}
		}
		switch h.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, t, h.FileInfo().Mode(), h.ModTime); err != nil {
				return &ArchiveError{Path: h.Name, Err: err}
			}
		default:
			log.Printf("Skipping tar entry %q of type %q", h.Name, h.Typeflag)
		}
	}
	return nil
}

// safeJoin returns dest/name, or an error when the name would land outside dest
func safeJoin(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", errUnsafePath, name)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", errUnsafePath, name)
	}
	return target, nil
}

func writeEntry(target string, src io.Reader, mode os.FileMode, modTime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	// the extracted copy must stay readable for the install step
	perm |= 0o600
	file, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, src); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if !modTime.IsZero() {
		_ = os.Chtimes(target, modTime, modTime)
	}
	return nil
}
