package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is enough of an ISO base media header for content sniffing.
var mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00, 'm', 'p', '4', '2', 'i', 's', 'o', 'm'}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	writePattern(t, path, nil, size)
}

// WriteVideo writes an MP4-looking file of the given size.
func WriteVideo(t testing.TB, path string, size int64) {
	t.Helper()
	writePattern(t, path, mp4Header, size)
}

func writePattern(t testing.TB, path string, header []byte, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	remaining := size
	if len(header) > 0 {
		h := header
		if int64(len(h)) > remaining {
			h = h[:remaining]
		}
		if _, err := f.Write(h); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= int64(len(h))
	}

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}
