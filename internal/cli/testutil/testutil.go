// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// Project is a temporary working directory with a config file pointing at a
// SQLite database and one SQL file.
type Project struct {
	Dir        string
	ConfigPath string
	SQLPath    string
	OutputDir  string
	StatePath  string
}

// SampleSQL creates a table, fills it and selects from it. Only the third
// statement returns columns.
const SampleSQL = `-- sample report
CREATE TABLE users (id INTEGER, name TEXT);
INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob; Jr.');
SELECT id, name
FROM users
ORDER BY id;
`

// SetupTestProject creates a temporary project with a sqltools.yaml whose
// default database is a SQLite file inside the project.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "sqltools.yaml"),
		SQLPath:    filepath.Join(dir, "report.sql"),
		OutputDir:  filepath.Join(dir, "output"),
		StatePath:  filepath.Join(dir, ".sqltools", "history.db"),
	}

	config := "databases:\n" +
		"  default:\n" +
		"    url: \"jdbc:sqlite:" + filepath.ToSlash(filepath.Join(dir, "app.db")) + "\"\n"
	WriteFile(t, p.ConfigPath, config)
	WriteFile(t, p.SQLPath, SampleSQL)

	return p
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ExecuteCommand runs cmd with args and returns what it wrote to stdout and
// stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdownTable checks that every non-empty line before the row
// count footer is a pipe table row and that the second line is a separator.
func AssertValidMarkdownTable(t *testing.T, md string) {
	t.Helper()

	var lines []string
	for _, l := range strings.Split(md, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		t.Errorf("markdown table needs a header and a separator, got %q", md)
		return
	}
	for i, l := range lines {
		if !strings.HasPrefix(l, "| ") || !strings.HasSuffix(l, " |") {
			t.Errorf("line %d is not a table row: %q", i+1, l)
		}
	}
	if !strings.HasPrefix(lines[1], "| ---") {
		t.Errorf("second line is not a separator: %q", lines[1])
	}
}
