package audiobook

import (
	"path/filepath"
	"strings"
)

// OutputPlan is the resolved destination of a conversion.
type OutputPlan struct {
	// Dir is the output directory without a trailing separator.
	Dir string
	// FileName is the base output file name; chapter numbers are inserted
	// before its extension when a conversion produces several files.
	FileName string
	// Explicit reports whether the caller supplied the file name.
	Explicit bool
}

// Path returns the base output file path.
func (p OutputPlan) Path() string {
	return filepath.Join(p.Dir, p.FileName)
}

// ResolveOutput derives the output directory and base file name.
//
// An empty output selects the source's directory. Trailing separators are
// ignored. When the last element of the remaining value has a name before
// its extension it names the output file and its parent is the directory;
// otherwise the value is the directory and the file name is the source base
// name with extension. ".", ".." and dot-prefixed names such as ".audiobooks"
// are directories.
func ResolveOutput(source, output, extension string) OutputPlan {
	if output == "" {
		output = filepath.Dir(source)
	}
	trimmed := trimSeparators(output)
	if trimmed == "" {
		// Output was the filesystem root.
		trimmed = string(filepath.Separator)
	}

	if namesFile(trimmed) {
		return OutputPlan{
			Dir:      filepath.Clean(filepath.Dir(trimmed)),
			FileName: filepath.Base(trimmed),
			Explicit: true,
		}
	}
	return OutputPlan{
		Dir:      filepath.Clean(trimmed),
		FileName: DerivedFileName(source, extension),
	}
}

// DerivedFileName replaces the extension of the source's base name.
func DerivedFileName(source, extension string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + normalizeExtension(extension)
}

func normalizeExtension(extension string) string {
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if extension == "" {
		return DefaultExtension
	}
	return extension
}

func namesFile(path string) bool {
	base := filepath.Base(path)
	if base == "." || base == ".." {
		return false
	}
	ext := filepath.Ext(base)
	return ext != "" && ext != base
}

func trimSeparators(value string) string {
	return strings.TrimRight(value, "/"+string(filepath.Separator))
}
