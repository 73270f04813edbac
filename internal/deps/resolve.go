package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Origin describes where a resolved binary came from.
type Origin string

const (
	OriginExplicit Origin = "explicit"
	OriginSidecar  Origin = "sidecar"
	OriginPath     Origin = "path"
)

// Resolution is the outcome of locating a transcoder binary.
type Resolution struct {
	Command   string
	Origin    Origin
	Available bool
	Detail    string
}

// ResolveFFmpeg locates the ffmpeg binary.
//
// An explicit value (flag or config) is used as-is: bare names are looked up
// on PATH, anything else must exist. Without one, an ffmpeg binary next to
// executable is preferred and PATH is the fallback. When nothing is found,
// Command holds the sidecar location that was expected.
func ResolveFFmpeg(explicit, executable string) Resolution {
	return resolve("ffmpeg", explicit, executable)
}

// ResolveFFprobe locates ffprobe, preferring the directory of the selected
// ffmpeg binary.
func ResolveFFprobe(explicit, ffmpegCommand string) Resolution {
	return resolve("ffprobe", explicit, ffmpegCommand)
}

func resolve(name, explicit, anchor string) Resolution {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return resolveExplicit(explicit)
	}

	sidecar := ""
	if anchor = strings.TrimSpace(anchor); anchor != "" {
		if resolved, err := exec.LookPath(anchor); err == nil {
			anchor = resolved
		}
		sidecar = SidecarPath(anchor, name)
		if info, err := os.Stat(sidecar); err == nil && isExecutable(info) {
			return Resolution{Command: sidecar, Origin: OriginSidecar, Available: true}
		}
	}

	if resolved, err := exec.LookPath(executableName(name)); err == nil {
		return Resolution{Command: resolved, Origin: OriginPath, Available: true}
	}

	command := sidecar
	if command == "" {
		command = executableName(name)
	}
	return Resolution{
		Command: command,
		Origin:  OriginSidecar,
		Detail:  fmt.Sprintf("binary %q not found beside %q or on PATH", executableName(name), anchor),
	}
}

func resolveExplicit(command string) Resolution {
	if !strings.ContainsAny(command, `/\`) {
		if resolved, err := exec.LookPath(command); err == nil {
			return Resolution{Command: resolved, Origin: OriginExplicit, Available: true}
		}
		return Resolution{Command: command, Origin: OriginExplicit, Detail: fmt.Sprintf("binary %q not found on PATH", command)}
	}
	info, err := os.Stat(command)
	if err != nil {
		return Resolution{Command: command, Origin: OriginExplicit, Detail: err.Error()}
	}
	if !isExecutable(info) {
		return Resolution{Command: command, Origin: OriginExplicit, Detail: "not an executable file"}
	}
	return Resolution{Command: command, Origin: OriginExplicit, Available: true}
}

// SidecarPath returns the location of name beside the given binary.
func SidecarPath(binary, name string) string {
	return filepath.Join(filepath.Dir(binary), executableName(name))
}

func executableName(base string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(base), ".exe") {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
