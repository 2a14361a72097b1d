package topology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/David-Antunes/netsim/internal"
)

// ScanLines calls fn for every trimmed line of r that is neither blank nor a
// comment. Scanning stops at the first error returned by fn.
func ScanLines(r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, internal.CommentMarker) {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ReadFile opens path and scans it with ScanLines.
func ReadFile(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := ScanLines(f, fn); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// ReadLines returns every meaningful line of path.
func ReadLines(path string) ([]string, error) {
	var lines []string
	err := ReadFile(path, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines, err
}
