package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	latest "github.com/tcnksm/go-latest"
)

const (
	repoOwner = "ZebulonRouseFrantzich"
	repoName  = "zerb-bootstrap"
)

// releaseSource is where update checks look. Tests replace it.
var releaseSource latest.Source = &latest.GithubTag{
	Owner:             repoOwner,
	Repository:        repoName,
	FixVersionStrFunc: latest.DeleteFrontV(),
}

// runVersion handles `zerb-bootstrap version [--check]`.
func runVersion(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("version", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	check := fs.Bool("check", false, "check GitHub for a newer release")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	fmt.Fprintf(stdout, "zerb-bootstrap %s\n", Version)
	if !*check {
		return nil
	}
	return checkLatest(stdout, releaseSource, Version)
}

func checkLatest(w io.Writer, src latest.Source, current string) error {
	res, err := latest.Check(src, strings.TrimPrefix(current, "v"))
	if err != nil {
		return fmt.Errorf("check latest release: %w", err)
	}

	if res.Outdated {
		fmt.Fprintf(w, "A new version is available: v%s (you have %s)\n", res.Current, current)
		fmt.Fprintf(w, "Download it from https://github.com/%s/%s/releases\n", repoOwner, repoName)
		return nil
	}
	fmt.Fprintf(w, "✓ You are using the latest version: %s\n", current)
	return nil
}
