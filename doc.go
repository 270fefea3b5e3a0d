/*
Package selfupdate keeps a KeyFlight configurator installation up to date with the releases
published on a registry (GitHub, GitLab, Gitea or a plain HTTP server hosting a manifest.yaml).

- Compares the installed version (VERSION file) with the latest published release

- Downloads the release archive with progress reporting and cooperative cancellation

- Optionally validates the archive against a published SHA256 checksum or ECDSA signature

- Merges the archive into the live installation, one atomic file replacement at a time,
leaving version-control metadata, editor settings, caches and virtual environments untouched

- Restarts the application through its launcher script

Many archive and compression formats are supported (zip, gzip, xzip, bzip2, tar).

Only one check or update can run at a time in a process. An update runs as a Session on its own
goroutine, reporting its progress on a channel of events:

	up, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	info, err := up.CheckForUpdate(ctx, 0)
	if info.Available {
		session, err := up.Start(ctx, info)
		for event := range session.Events() {
			fmt.Println(event.Progress, event.Message)
		}
		stats, err := session.Wait()
	}

A small CLI wrapping this library is available in cmd/keyflight-update.
*/
package selfupdate
