package sound

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hajimehoshi/go-mp3"
)

// ErrUnsupportedFormat is returned for clips that are not 16-bit PCM WAV
// or MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decode reads a whole clip. The format is sniffed from the leading bytes,
// so an MP3 served under a .wav name still plays. The extension of name
// only decides for streams that match neither signature.
func Decode(r io.Reader, name string) (*Clip, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, []byte("RIFF")):
		return decodeWAV(br)
	case isMP3(head), strings.EqualFold(path.Ext(name), ".mp3"):
		return decodeMP3(br)
	}
	return decodeWAV(br)
}

// isMP3 matches an ID3v2 tag or an MPEG audio frame sync.
func isMP3(head []byte) bool {
	if bytes.HasPrefix(head, []byte("ID3")) {
		return true
	}
	return len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0
}

func decodeMP3(r io.Reader) (*Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}
	data, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}
	// go-mp3 always produces 16-bit little-endian stereo.
	return &Clip{
		SampleRate: d.SampleRate(),
		Channels:   2,
		Samples:    bytesToSamples(data),
	}, nil
}

func decodeWAV(r io.Reader) (*Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream: %w", ErrUnsupportedFormat)
	}

	clip := &Clip{}
	var haveFormat bool
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := data[off+8:]
		// Streamed WAV files leave the data size as 0 or 0xFFFFFFFF.
		if size > len(body) || (id == "data" && size == 0) {
			size = len(body)
		}
		body = body[:size]

		switch id {
		case "fmt ":
			if len(body) < 16 {
				return nil, fmt.Errorf("short fmt chunk: %w", ErrUnsupportedFormat)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			bits := binary.LittleEndian.Uint16(body[14:16])
			if (format != 1 && format != 0xFFFE) || bits != 16 {
				return nil, fmt.Errorf("format %d with %d bits: %w", format, bits, ErrUnsupportedFormat)
			}
			clip.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			clip.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			if clip.Channels == 0 || clip.SampleRate == 0 {
				return nil, fmt.Errorf("empty fmt chunk: %w", ErrUnsupportedFormat)
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return nil, fmt.Errorf("data before fmt chunk: %w", ErrUnsupportedFormat)
			}
			clip.Samples = bytesToSamples(body)
			return clip, nil
		}

		off += 8 + size + size%2
	}
	return nil, fmt.Errorf("no data chunk: %w", ErrUnsupportedFormat)
}

func bytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return samples
}
