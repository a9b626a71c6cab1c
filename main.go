package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/CrazySloths/skillbadge/internal/config"
	"github.com/CrazySloths/skillbadge/internal/crawler"
	"github.com/CrazySloths/skillbadge/internal/generator"
	"github.com/CrazySloths/skillbadge/internal/logging"
	"github.com/spf13/cobra"
)

type runOptions struct {
	configFile string
	owner      string
	readme     string
	dryRun     bool
	verbose    bool
}

// newSource is replaced in tests.
var newSource = func(token string, timeout time.Duration) crawler.Source {
	return crawler.NewGitHubSource(token, timeout)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.UserError("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:           "skillbadge",
		Short:         "Update a README skill badge from the technologies used in your GitHub repositories",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default .skillbadge.yaml if present)")
	flags.StringVar(&opts.owner, "owner", "", "GitHub user whose repositories are scanned")
	flags.StringVar(&opts.readme, "readme", "", "README file to update")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the updated README instead of writing it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts *runOptions) error {
	logging.Setup(opts.verbose, nil)
	logging.UserInfo("Starting the README update process...")

	overrides := map[string]any{}
	if opts.owner != "" {
		overrides["owner"] = opts.owner
	}
	if opts.readme != "" {
		overrides["readme"] = opts.readme
	}

	cfg, err := config.Load(opts.configFile, overrides)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.Debug("configuration loaded", "owner", cfg.Owner, "readme", cfg.Readme, "timeout", cfg.HTTPTimeout)

	source := newSource(githubToken(), cfg.HTTPTimeout)
	skills, err := crawler.Run(ctx, source, crawler.Options{
		Owner:    cfg.Owner,
		Skills:   cfg.Skills,
		Progress: !opts.verbose,
	})
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	logging.UserSuccess("Skill detection complete. Found skills: [%s]", strings.Join(skills.Items(), ", "))

	badge := generator.BuildBadge(cfg.Badge.BaseURL, skills)
	logging.UserInfo("Generated new skill icon markdown.")

	markers := generator.Markers{Start: cfg.Markers.Start, End: cfg.Markers.End}
	res, err := generator.Run(cfg.Readme, markers, badge, opts.dryRun)
	if err != nil {
		return fmt.Errorf("error updating %s: %w", cfg.Readme, err)
	}

	switch {
	case opts.dryRun:
		fmt.Fprint(out, res.Content)
	case res.Changed:
		logging.UserSuccess("%s has been updated successfully!", cfg.Readme)
	default:
		logging.UserSuccess("%s is already up to date.", cfg.Readme)
	}
	return nil
}

// githubToken returns the credential supplied by the environment, if any.
func githubToken() string {
	for _, key := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(key); token != "" {
			return token
		}
	}
	return ""
}
