package history

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitCLI runs "git log -S" in a working copy.
type GitCLI struct {
	Dir    string
	Filter FileFilter
	Binary string // Defaults to "git"
}

// Search implements Searcher.
func (g *GitCLI) Search(ctx context.Context, needle string) (*Record, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}

	args := []string{"log", "-S" + needle, "--name-only", "--pretty=format:%h%n%s", "--"}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.Dir

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("git command failed: %w (command: %s %s, output: %s)",
				err, bin, strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git command failed: %w (command: %s %s)", err, bin, strings.Join(args, " "))
	}

	return ParseLog(string(out), g.Filter), nil
}

// ParseLog reads the output of
//
//	git log --name-only --pretty=format:%h%n%s
//
// and returns the first commit with at least one file passing filter.
// Commits are separated by blank lines; in each block the first line is
// the hash, the second the subject and the rest are file names.
func ParseLog(output string, filter FileFilter) *Record {
	output = strings.ReplaceAll(output, "\r\n", "\n")

	for _, block := range strings.Split(output, "\n\n") {
		lines := strings.Split(strings.Trim(block, "\n"), "\n")
		if len(lines) < 3 {
			continue
		}

		var files []string
		for _, f := range lines[2:] {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if filter == nil || filter(f) {
				files = append(files, f)
			}
		}
		if len(files) == 0 {
			continue
		}

		return &Record{
			Hash:    strings.TrimSpace(lines[0]),
			Subject: strings.TrimSpace(lines[1]),
			Files:   files,
		}
	}
	return nil
}
