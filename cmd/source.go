package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/keyflight/selfupdate"
)

// SplitDomainSlug tries to make sense of the repository string
// and returns a domain name (if present) and a slug.
//
// Example of valid entries:
//
//   - "owner/name"
//   - "github.com/owner/name"
//   - "http://github.com/owner/name"
func SplitDomainSlug(repo string) (domain, slug string, err error) {
	// simple case first => only a slug
	parts := strings.Split(repo, "/")
	if len(parts) == 2 {
		if parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("invalid slug or URL %q", repo)
		}
		return "", repo, nil
	}
	// trim trailing /
	repo = strings.TrimSuffix(repo, "/")

	if !strings.HasPrefix(repo, "http") && !strings.Contains(repo, "://") && !strings.HasPrefix(repo, "/") {
		// add missing scheme
		repo = "https://" + repo
	}

	repoURL, err := url.Parse(repo)
	if err != nil {
		return "", "", err
	}

	// make sure hostname looks like a real domain name
	if !strings.Contains(repoURL.Hostname(), ".") {
		return "", "", fmt.Errorf("invalid domain name %q", repoURL.Hostname())
	}
	domain = repoURL.Scheme + "://" + repoURL.Host
	slug = strings.TrimPrefix(repoURL.Path, "/")

	if slug == "" {
		return "", "", fmt.Errorf("invalid URL %q", repo)
	}
	return domain, slug, nil
}

// GetSource creates the Source publishing the releases of repo.
// repo is a slug or a URL as accepted by SplitDomainSlug.
// sourceType is one of "github", "gitlab", "gitea" or "http"; with "auto" (or empty) it is guessed from the domain.
// baseURL overrides the domain of the registry, and is required by the "http" source when repo is only a slug.
// A GitLab project can also be given by its numeric ID.
func GetSource(sourceType, repo, baseURL, token string) (selfupdate.Source, error) {
	if id, err := strconv.Atoi(repo); err == nil && sourceType == "gitlab" {
		return selfupdate.NewGitLabSource(selfupdate.GitLabConfig{Repository: selfupdate.NewRepositoryID(id), BaseURL: baseURL, APIToken: token})
	}
	domain, slug, err := SplitDomainSlug(repo)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		domain = baseURL
	}
	repository := selfupdate.ParseSlug(slug)

	if sourceType == "auto" || sourceType == "" {
		sourceType = guessSourceType(domain)
	}
	switch sourceType {
	case "github":
		return newGitHubSource(repository, domain, token)

	case "gitea":
		return selfupdate.NewGiteaSource(selfupdate.GiteaConfig{Repository: repository, BaseURL: domain, APIToken: token})

	case "gitlab":
		return selfupdate.NewGitLabSource(selfupdate.GitLabConfig{Repository: repository, BaseURL: domain, APIToken: token})

	case "http":
		return selfupdate.NewHttpSource(selfupdate.HttpConfig{Repository: repository, BaseURL: domain})

	default:
		return nil, fmt.Errorf("unknown source type %q", sourceType)
	}
}

func guessSourceType(domain string) string {
	switch {
	case strings.Contains(domain, "gitea"):
		return "gitea"
	case strings.Contains(domain, "gitlab"):
		return "gitlab"
	default:
		return "github"
	}
}

func newGitHubSource(repository selfupdate.Repository, domain, token string) (*selfupdate.GitHubSource, error) {
	config := selfupdate.GitHubConfig{Repository: repository, APIToken: token}
	if domain != "" && !strings.HasSuffix(domain, "://github.com") {
		config.EnterpriseBaseURL = domain
	}
	return selfupdate.NewGitHubSource(config)
}
