package preflight

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"convertaudiobook/internal/deps"
)

// CheckBinary converts a binary resolution into a check result.
func CheckBinary(name string, res deps.Resolution) Result {
	if !res.Available {
		detail := res.Detail
		if detail == "" {
			detail = "not found"
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", res.Command, detail)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", res.Command, res.Origin)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSourceReadable verifies that a source file exists and can be read.
func CheckSourceReadable(path string) Result {
	const name = "Source"
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckEncoder verifies that ffmpeg was built with the given audio encoder.
func CheckEncoder(ctx context.Context, ffmpegCommand, codec string) Result {
	name := "Encoder " + codec

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	output, err := exec.CommandContext(checkCtx, ffmpegCommand, "-hide_banner", "-encoders").Output()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("encoder listing failed (%v)", err)}
	}
	if hasEncoder(output, codec) {
		return Result{Name: name, Passed: true, Detail: "available"}
	}
	return Result{Name: name, Detail: "not built into ffmpeg"}
}

// hasEncoder scans `ffmpeg -encoders` output, whose rows are
// "<flags> <name> <description>".
func hasEncoder(listing []byte, codec string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && strings.EqualFold(fields[1], codec) {
			return true
		}
	}
	return false
}
