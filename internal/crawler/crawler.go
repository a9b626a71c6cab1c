package crawler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/CrazySloths/skillbadge/internal/config"
	"github.com/CrazySloths/skillbadge/internal/logging"
	"github.com/CrazySloths/skillbadge/internal/models"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

const (
	PackageJSONPath = "package.json"
	ComposerPath    = "composer.json"
)

// Options configures a crawl.
type Options struct {
	Owner  string
	Skills config.SkillTable
	// Progress enables the terminal progress bar.
	Progress bool
}

// Run executes the crawl phase: list the owner's repositories and scan each
// one for skills. A listing failure or a cancelled context is returned as an
// error; per-repository failures are only logged.
func Run(ctx context.Context, source Source, opts Options) (*models.SkillSet, error) {
	logging.UserInfo("Fetching repository data for user %s...", opts.Owner)
	repos, err := source.ListRepositories(ctx, opts.Owner)
	if err != nil {
		return nil, err
	}
	logging.UserSuccess("Found %d repositories.", len(repos))

	logging.UserInfo("Scanning repositories for technologies...")
	scanner := NewScanner(source, opts.Owner, opts.Skills)
	scanner.progress = opts.Progress
	return scanner.Scan(ctx, repos)
}

// Scanner detects skills from repository manifests.
type Scanner struct {
	source   Source
	owner    string
	table    config.SkillTable
	progress bool
	// quiet routes per-repository notices to the debug log while the
	// progress bar owns the terminal.
	quiet bool
}

// NewScanner creates a scanner reading owner's repositories from source.
func NewScanner(source Source, owner string, table config.SkillTable) *Scanner {
	return &Scanner{source: source, owner: owner, table: table}
}

// Scan checks every repository in order and returns the accumulated skills.
// Per-repository failures are logged and do not stop the scan. A cancelled
// ctx stops the scan and is returned instead of a partial set.
func (s *Scanner) Scan(ctx context.Context, repos []models.Repository) (*models.SkillSet, error) {
	skills := models.NewSkillSet()

	var bar *progressbar.ProgressBar
	if s.progress {
		bar = newRepoProgressBar(len(repos))
	}
	if bar != nil {
		s.quiet = true
		defer func() {
			_ = bar.Finish()
			s.quiet = false
		}()
	}

	errCount := 0
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}
		errs := s.ScanRepository(ctx, repo, skills)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}
		for _, err := range errs {
			logging.UserError("%v", err)
			errCount++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if errCount > 0 {
		logging.UserWarning("Scan finished with %d error(s); skills from those manifests are missing.", errCount)
	}
	logging.Debug("scan complete", "repositories", len(repos), "errors", errCount, "skills", skills.Len())
	return skills, nil
}

// notice prints a per-repository status line, or logs it at debug level
// while the progress bar is drawing.
func (s *Scanner) notice(format string, args ...any) {
	if s.quiet {
		logging.Debug(fmt.Sprintf(format, args...))
		return
	}
	logging.UserInfo(format, args...)
}

// ScanRepository checks the package.json and composer.json of one
// repository and adds what it finds to skills. Missing manifests are not
// errors; anything else is returned for the caller to report.
func (s *Scanner) ScanRepository(ctx context.Context, repo models.Repository, skills *models.SkillSet) []error {
	var errs []error
	if err := s.scanPackageJSON(ctx, repo, skills); err != nil && !errors.Is(err, ErrNotFound) {
		errs = append(errs, fmt.Errorf("error processing %s for %s: %w", PackageJSONPath, repo.Name, err))
	}
	if err := s.scanComposer(ctx, repo, skills); err != nil && !errors.Is(err, ErrNotFound) {
		errs = append(errs, fmt.Errorf("error processing %s for %s: %w", ComposerPath, repo.Name, err))
	}
	return errs
}

func (s *Scanner) scanPackageJSON(ctx context.Context, repo models.Repository, skills *models.SkillSet) error {
	file, err := s.source.GetFile(ctx, s.owner, repo.Name, PackageJSONPath)
	if err != nil {
		return err
	}
	deps, err := parsePackageJSON([]byte(file.Content))
	if err != nil {
		return err
	}

	s.notice("Scanning %s for JS skills...", repo.Name)
	for _, skill := range s.table.Detect(deps) {
		if skills.Add(skill) {
			logging.Debug("skill detected", "repo", repo.Name, "skill", skill, "source", PackageJSONPath)
		}
	}
	return nil
}

// scanComposer only checks that composer.json exists; its content is not read.
func (s *Scanner) scanComposer(ctx context.Context, repo models.Repository, skills *models.SkillSet) error {
	if _, err := s.source.GetFile(ctx, s.owner, repo.Name, ComposerPath); err != nil {
		return err
	}

	s.notice("Found PHP/Composer project in %s!", repo.Name)
	for _, skill := range s.table.Composer {
		skills.Add(skill)
	}
	return nil
}

// newRepoProgressBar returns nil unless there is more than one repository
// and stderr is a terminal.
func newRepoProgressBar(total int) *progressbar.ProgressBar {
	if total <= 1 {
		return nil
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}

	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("scanning repositories"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}
