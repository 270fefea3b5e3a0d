package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

const (
	fetchChunkSize = 32 * 1024
	// maximum size of a validation asset (checksum or signature file)
	maxValidationAssetSize = 1 << 20
	// with an unknown length, the progress reaches half of the download range after that many bytes
	unknownSizeHalfway = 4 << 20
)

// ProgressFunc receives the overall progress of a session (0 to 100) and a status message.
type ProgressFunc func(percent int, message string)

// Fetcher downloads release archives.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	token       string
	tokenDomain string
}

// NewFetcher creates a Fetcher. The API token of the source (if any)
// is only sent to hosts of the registry domain.
func NewFetcher(client *http.Client, userAgent string, source Source) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	fetcher := &Fetcher{
		client:    client,
		userAgent: userAgent,
	}
	if tokenSource, ok := source.(TokenSource); ok {
		fetcher.token, fetcher.tokenDomain = tokenSource.Token()
	}
	return fetcher
}

// Fetch streams the content at url into destPath.
// Progress is reported in the 0-50 range: proportional to the bytes received when the length is known,
// growing towards 49 otherwise. 50 is only reported once the file is complete.
// The context is checked before every chunk: on cancellation the partial file is removed and ErrCancelled returned.
// Any other failure is a *FetchError, and the partial file is removed as well.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string, onProgress ProgressFunc) error {
	if onProgress == nil {
		onProgress = func(int, string) {}
	}
	if err := f.fetch(ctx, url, destPath, onProgress); err != nil {
		_ = os.Remove(destPath)
		if ctx.Err() != nil {
			return ErrCancelled
		}
		return err
	}
	onProgress(50, "Download complete")
	return nil
}

func (f *Fetcher) fetch(ctx context.Context, url, destPath string, onProgress ProgressFunc) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	file, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}
	defer file.Close()

	total := resp.ContentLength
	var received int64
	lastPercent := -1
	buffer := make([]byte, fetchChunkSize)
	for {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		n, readErr := resp.Body.Read(buffer)
		if n > 0 {
			if _, err := file.Write(buffer[:n]); err != nil {
				return &FetchError{URL: url, Err: err}
			}
			received += int64(n)
			if percent := downloadPercent(received, total); percent != lastPercent {
				lastPercent = percent
				onProgress(percent, downloadMessage(received, total))
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return &FetchError{URL: url, Err: readErr}
		}
	}
	if total > 0 && received != total {
		return &FetchError{URL: url, Err: fmt.Errorf("received %d bytes out of %d", received, total)}
	}
	if err := file.Close(); err != nil {
		return &FetchError{URL: url, Err: err}
	}
	log.Printf("Downloaded %d bytes from %s", received, redactURL(url))
	return nil
}

// FetchBytes downloads a small asset (like a checksum file) in memory.
func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxValidationAssetSize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, &FetchError{URL: url, Err: err}
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/octet-stream")
	if f.token != "" {
		// verify request is from same domain not to leak token
		ok, err := canUseTokenForDomain(f.tokenDomain, url)
		if err == nil && ok {
			req.Header.Set("Authorization", "Bearer "+f.token)
		}
	}

	log.Printf("Downloading %s", redactURL(url))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected HTTP status %s", resp.Status)}
	}
	return resp, nil
}

// downloadPercent maps the bytes received into the 0-49 range
func downloadPercent(received, total int64) int {
	if total > 0 {
		percent := int(received * 50 / total)
		if percent > 49 {
			percent = 49
		}
		return percent
	}
	return int(received * 49 / (received + unknownSizeHalfway))
}

func downloadMessage(received, total int64) string {
	if total > 0 {
		return fmt.Sprintf("Downloading... %s / %s", formatBytes(received), formatBytes(total))
	}
	return fmt.Sprintf("Downloading... %s", formatBytes(received))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
