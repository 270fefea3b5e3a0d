package selfupdate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/keyflight/selfupdate/update"
)

// InstallStats counts the files processed by an installation.
type InstallStats struct {
	// FilesCopied is the number of files written into the installation
	FilesCopied int
	// FilesSkipped is the number of files left untouched because they are excluded
	FilesSkipped int
}

// Installer merges the content of a release archive into a live installation.
type Installer struct{}

// NewInstaller creates an Installer
func NewInstaller() *Installer {
	return &Installer{}
}

// Install extracts the archive next to it (never over installRoot), then copies every file
// which is not excluded into installRoot, overwriting existing files.
// Each file is replaced atomically and keeps its permission bits and modification time.
//
// Progress is reported at 50 while extracting, then from 60 to 90 as files are copied.
// The context is checked before each copy: on cancellation the files already copied stay in place
// and ErrCancelled is returned with the partial stats.
// The extraction directory is removed on every exit path.
func (i *Installer) Install(ctx context.Context, archivePath, installRoot string, onProgress ProgressFunc, exclude ExcludeFunc) (InstallStats, error) {
	stats := InstallStats{}
	if onProgress == nil {
		onProgress = func(int, string) {}
	}
	if exclude == nil {
		exclude = noExclusion
	}

	onProgress(50, "Extracting update...")
	extractDir, err := os.MkdirTemp(filepath.Dir(archivePath), "extract-")
	if err != nil {
		return stats, &ArchiveError{Path: archivePath, Err: err}
	}
	defer func() {
		if err := os.RemoveAll(extractDir); err != nil {
			log.Printf("Cannot remove extraction directory %q: %s", extractDir, err)
		}
	}()

	if err := ExtractArchive(ctx, archivePath, extractDir); err != nil {
		return stats, err
	}

	sourceRoot, err := findSourceRoot(extractDir)
	if err != nil {
		return stats, &ArchiveError{Path: archivePath, Err: err}
	}

	files := make([]string, 0)
	err = filepath.WalkDir(sourceRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return err
		}
		if exclude(rel) {
			stats.FilesSkipped++
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return stats, &ArchiveError{Path: archivePath, Err: err}
	}

	total := len(files)
	log.Printf("Installing %d files into %q (%d protected files skipped)", total, installRoot, stats.FilesSkipped)
	onProgress(60, fmt.Sprintf("Installing %d files...", total))
	lastPercent := 60
	for _, rel := range files {
		if ctx.Err() != nil {
			log.Printf("Installation cancelled after %d files out of %d", stats.FilesCopied, total)
			return stats, ErrCancelled
		}
		if err := installFile(filepath.Join(sourceRoot, rel), filepath.Join(installRoot, rel)); err != nil {
			return stats, &InstallError{Path: rel, Err: err}
		}
		stats.FilesCopied++
		if percent := 60 + stats.FilesCopied*30/total; percent != lastPercent {
			lastPercent = percent
			onProgress(percent, fmt.Sprintf("Installing... %d/%d files", stats.FilesCopied, total))
		}
	}
	return stats, nil
}

func installFile(source, target string) error {
	file, err := os.Open(source)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	return update.Apply(file, update.Options{
		TargetPath: target,
		TargetMode: info.Mode().Perm(),
		ModTime:    info.ModTime(),
	})
}

// findSourceRoot returns the single top-level directory of the extraction (registries wrap
// the content in a "repo-tag" folder), or the extraction directory itself.
func findSourceRoot(extractDir string) (string, error) {
	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(extractDir, entries[0].Name()), nil
	}
	return extractDir, nil
}
