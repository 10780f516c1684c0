package export

import (
	"errors"
	"io"
)

// writeSeeker is an in-memory io.WriteSeeker for the WAVE encoder, which seeks back to
// finish the header once the data size is known.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		if end > cap(w.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, w.buf)
			w.buf = grown
		} else {
			w.buf = w.buf[:end]
		}
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("export: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("export: negative position")
	}
	w.pos = int(abs)
	return abs, nil
}

// Bytes returns everything written so far
func (w *writeSeeker) Bytes() []byte {
	return w.buf
}
