// Package memory implements the project-anchored memory store: path
// normalization, git-root discovery, and the categorized note files.
package memory

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// forbiddenChars mirrors the characters rejected across all platforms so a
// normalized path never collides with filesystem or URL metacharacters.
const forbiddenChars = `<>"|?*`

// windowsMaxPath is the legacy MAX_PATH limit enforced only when running on
// Windows.
const windowsMaxPath = 260

var driveLetterPattern = regexp.MustCompile(`^/([A-Za-z]):(/.*)?$`)

// NormalizeProjectPath decodes, repairs and canonicalizes a project path
// received from a client that may percent-encode paths or use POSIX-style
// drive prefixes (as some URI-producing clients do on Windows).
func NormalizeProjectPath(input string) (string, error) {
	decoded, err := url.PathUnescape(input)
	if err != nil {
		return "", fmt.Errorf("invalid project path %q: %w", input, err)
	}

	decoded = repairDriveLetter(decoded)

	if strings.ContainsAny(decoded, forbiddenChars) {
		return "", fmt.Errorf("project path %q contains a forbidden character (one of %s)", input, forbiddenChars)
	}

	if runtime.GOOS == "windows" && len(decoded) > windowsMaxPath {
		return "", fmt.Errorf("project path %q exceeds the %d character limit on Windows", input, windowsMaxPath)
	}

	return canonicalize(decoded), nil
}

// repairDriveLetter turns a leading `/C:/foo/bar` form into `C:\foo\bar`,
// the convention produced by some URI-aware clients on Windows.
func repairDriveLetter(path string) string {
	m := driveLetterPattern.FindStringSubmatch(path)
	if m == nil {
		return path
	}
	letter := strings.ToUpper(m[1])
	rest := strings.TrimPrefix(m[2], "/")
	rest = strings.ReplaceAll(rest, "/", `\`)
	if rest == "" {
		return letter + `:\`
	}
	return letter + `:\` + rest
}

// canonicalize resolves path to an absolute form. If the filesystem lookup
// fails (e.g. a broken symlink or a path that does not yet exist),
// canonicalize falls back to the lexically-absolute form rather than
// failing the whole normalization.
func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}
