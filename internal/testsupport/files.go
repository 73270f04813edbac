package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// m4bHeader is an ISO BMFF ftyp box with the M4B brand.
var m4bHeader = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'M', '4', 'B', ' ', 0x00, 0x00, 0x02, 0x00,
	'M', '4', 'B', ' ', 'm', 'p', '4', '2',
}

// WriteAudiobook creates a placeholder .m4b at path: a valid ftyp box
// followed by zero padding up to size bytes. Nothing decodes the audio; the
// stub binaries only need the file to exist.
func WriteAudiobook(t testing.TB, path string, size int) {
	t.Helper()

	payload := make([]byte, max(size, len(m4bHeader)))
	copy(payload, m4bHeader)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
