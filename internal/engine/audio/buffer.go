package audio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// Buffer is a fully decoded track held in memory.
type Buffer struct {
	Name string
	buf  *beep.Buffer
}

// Decode decodes MP3 or WAV data into a Buffer. The format is chosen by the
// extension of name.
func Decode(data []byte, name string) (*Buffer, error) {
	rc := io.NopCloser(bytes.NewReader(data))

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(rc)
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	default:
		return nil, fmt.Errorf("decode %s: unsupported audio format %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("decode %s: no samples", name)
	}

	return &Buffer{Name: name, buf: buf}, nil
}

// Format returns the sample format.
func (b *Buffer) Format() beep.Format {
	return b.buf.Format()
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// Duration returns the track length.
func (b *Buffer) Duration() time.Duration {
	return b.buf.Format().SampleRate.D(b.buf.Len())
}

// Streamer returns a fresh seekable streamer over the whole track.
func (b *Buffer) Streamer() beep.StreamSeeker {
	return b.buf.Streamer(0, b.buf.Len())
}
