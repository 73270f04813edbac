package logs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNoLog is returned when the requested log file does not exist.
var ErrNoLog = errors.New("log file not found")

// Lines longer than this fail the read instead of being split.
const maxLineBytes = 1 << 20

// Tail returns the last limit lines of the file at path. A limit <= 0 returns
// every line.
func Tail(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNoLog, path)
	case err != nil:
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(nil, maxLineBytes)

	var window []string
	for scanner.Scan() {
		window = append(window, scanner.Text())
		// Compact once the window holds twice the limit.
		if limit > 0 && len(window) >= 2*limit {
			window = append(window[:0], window[len(window)-limit:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	if limit > 0 && len(window) > limit {
		window = window[len(window)-limit:]
	}
	return window, nil
}
