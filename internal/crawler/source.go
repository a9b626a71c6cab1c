package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/CrazySloths/skillbadge/internal/models"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// MaxRepositories is the page size of the single listing request.
const MaxRepositories = 100

// ErrNotFound is returned by Source.GetFile when the file does not exist.
var ErrNotFound = errors.New("not found")

// Source is the hosted source-control API the crawler reads from.
type Source interface {
	// ListRepositories returns repositories owned by owner, most recently
	// updated first, at most MaxRepositories of them.
	ListRepositories(ctx context.Context, owner string) ([]models.Repository, error)
	// GetFile fetches path at the root of the default branch.
	GetFile(ctx context.Context, owner, repo, path string) (*models.ManifestFile, error)
}

// GitHubSource implements Source on the GitHub REST API.
type GitHubSource struct {
	client *github.Client
}

// NewGitHubSource builds a source. An empty token means unauthenticated
// requests.
func NewGitHubSource(token string, timeout time.Duration) *GitHubSource {
	ctx := context.Background()
	hc := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hc), ts)
		hc.Timeout = timeout
	}
	return NewGitHubSourceWithClient(github.NewClient(hc))
}

// NewGitHubSourceWithClient wraps an existing client.
func NewGitHubSourceWithClient(client *github.Client) *GitHubSource {
	return &GitHubSource{client: client}
}

func (s *GitHubSource) ListRepositories(ctx context.Context, owner string) ([]models.Repository, error) {
	opt := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: MaxRepositories},
	}
	repos, _, err := s.client.Repositories.ListByUser(ctx, owner, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", owner, err)
	}
	if len(repos) > MaxRepositories {
		repos = repos[:MaxRepositories]
	}

	out := make([]models.Repository, 0, len(repos))
	for _, repo := range repos {
		out = append(out, models.Repository{Name: repo.GetName()})
	}
	return out, nil
}

func (s *GitHubSource) GetFile(ctx context.Context, owner, repo, path string) (*models.ManifestFile, error) {
	file, _, _, err := s.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s/%s: %s: %w", owner, repo, path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s from %s/%s: %w", path, owner, repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is a directory", path, owner, repo)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from %s/%s: %w", path, owner, repo, err)
	}
	return &models.ManifestFile{Path: file.GetPath(), Content: content}, nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
