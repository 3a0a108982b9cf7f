package sound_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/d1nch8g/quizvoice/sound"
)

type wavFormat struct {
	format     uint16
	channels   uint16
	rate       uint32
	bits       uint16
	dataSize   uint32 // 0 means len(samples)*2
	extraChunk bool
}

func makeWAV(f wavFormat, samples []int16) []byte {
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var body bytes.Buffer
	body.WriteString("WAVE")
	if f.extraChunk {
		body.WriteString("LIST")
		binary.Write(&body, binary.LittleEndian, uint32(3))
		body.Write([]byte{'a', 'b', 'c', 0}) // odd size plus pad byte
	}
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(16))
	binary.Write(&body, binary.LittleEndian, f.format)
	binary.Write(&body, binary.LittleEndian, f.channels)
	binary.Write(&body, binary.LittleEndian, f.rate)
	binary.Write(&body, binary.LittleEndian, f.rate*uint32(f.channels)*uint32(f.bits/8))
	binary.Write(&body, binary.LittleEndian, f.channels*f.bits/8)
	binary.Write(&body, binary.LittleEndian, f.bits)
	body.WriteString("data")
	size := f.dataSize
	if size == 0 {
		size = uint32(data.Len())
	}
	binary.Write(&body, binary.LittleEndian, size)
	body.Write(data.Bytes())

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 42}

	tests := []struct {
		name string
		f    wavFormat
	}{
		{"mono", wavFormat{format: 1, channels: 1, rate: 22050, bits: 16}},
		{"stereo", wavFormat{format: 1, channels: 2, rate: 44100, bits: 16}},
		{"extra chunk", wavFormat{format: 1, channels: 1, rate: 48000, bits: 16, extraChunk: true}},
		{"streamed size", wavFormat{format: 1, channels: 1, rate: 16000, bits: 16, dataSize: 0xFFFFFFFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, err := sound.Decode(bytes.NewReader(makeWAV(tt.f, samples)), "/audio/x.wav")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if clip.SampleRate != int(tt.f.rate) || clip.Channels != int(tt.f.channels) {
				t.Fatalf("format = %d Hz x%d, want %d Hz x%d", clip.SampleRate, clip.Channels, tt.f.rate, tt.f.channels)
			}
			if len(clip.Samples) != len(samples) {
				t.Fatalf("samples = %d, want %d", len(clip.Samples), len(samples))
			}
			for i := range samples {
				if clip.Samples[i] != samples[i] {
					t.Fatalf("sample %d = %d, want %d", i, clip.Samples[i], samples[i])
				}
			}
			if want := len(samples) / int(tt.f.channels); clip.Frames() != want {
				t.Fatalf("Frames() = %d, want %d", clip.Frames(), want)
			}
		})
	}
}

func TestDecodeWAV_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("OggS0000WAVEfmt ")},
		{"8 bit", makeWAV(wavFormat{format: 1, channels: 1, rate: 8000, bits: 8}, []int16{1})},
		{"float", makeWAV(wavFormat{format: 3, channels: 1, rate: 8000, bits: 16}, []int16{1})},
		{"no channels", makeWAV(wavFormat{format: 1, channels: 0, rate: 8000, bits: 16}, []int16{1})},
		{"no data", []byte("RIFF\x04\x00\x00\x00WAVE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sound.Decode(bytes.NewReader(tt.data), "clip.wav")
			if !errors.Is(err, sound.ErrUnsupportedFormat) {
				t.Fatalf("Decode() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

// makeMP3 builds silent MPEG-1 Layer III frames: 128 kbps, 44.1 kHz,
// stereo, no CRC. A zeroed side info and main data decode as silence.
func makeMP3(frames int) []byte {
	const frameSize = 144 * 128000 / 44100 // 417 bytes, no padding
	var out bytes.Buffer
	for i := 0; i < frames; i++ {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
		out.Write(frame)
	}
	return out.Bytes()
}

func TestDecodeMP3(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"mp3 name", "/audio/x.mp3"},
		{"served as wav", "/audio/x.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, err := sound.Decode(bytes.NewReader(makeMP3(8)), tt.uri)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if clip.SampleRate != 44100 {
				t.Fatalf("SampleRate = %d, want 44100", clip.SampleRate)
			}
			if clip.Channels != 2 {
				t.Fatalf("Channels = %d, want 2", clip.Channels)
			}
			if len(clip.Samples) == 0 || len(clip.Samples)%2 != 0 {
				t.Fatalf("samples = %d, want a non-empty stereo buffer", len(clip.Samples))
			}
			for i, s := range clip.Samples {
				if s != 0 {
					t.Fatalf("sample %d = %d, want silence", i, s)
				}
			}
		})
	}
}

func TestDecode_SniffsWAVUnderMP3Name(t *testing.T) {
	data := makeWAV(wavFormat{format: 1, channels: 1, rate: 16000, bits: 16}, []int16{7, 8})
	clip, err := sound.Decode(bytes.NewReader(data), "/audio/x.mp3")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if clip.SampleRate != 16000 || len(clip.Samples) != 2 {
		t.Fatalf("clip = %d Hz, %d samples, want 16000 Hz, 2 samples", clip.SampleRate, len(clip.Samples))
	}
}
