package tts

import (
	"errors"
	"testing"

	ttspb "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/tts/v3"
)

func TestBuildRequest(t *testing.T) {
	req := buildRequest("seitse pluss viis", GetDefaultSynthesisOptions("jane"))

	if req.GetText() != "seitse pluss viis" || req.GetModel() != "general" {
		t.Fatalf("text/model = %q/%q", req.GetText(), req.GetModel())
	}
	if got := req.GetOutputAudioSpec().GetContainerAudio().GetContainerAudioType(); got != ttspb.ContainerAudio_WAV {
		t.Fatalf("container = %v, want WAV", got)
	}
	if got := req.GetLoudnessNormalizationType(); got != ttspb.UtteranceSynthesisRequest_LUFS {
		t.Fatalf("normalization = %v, want LUFS", got)
	}

	hints := req.GetHints()
	if len(hints) != 2 {
		t.Fatalf("hints = %d, want 2 (no volume hint by default)", len(hints))
	}
	if hints[0].GetVoice() != "jane" || hints[1].GetSpeed() != 1.0 {
		t.Fatalf("hints = %v", hints)
	}
}

func TestBuildRequest_Fallbacks(t *testing.T) {
	req := buildRequest("x", SynthesisOptions{Voice: "marina", Volume: -3})

	if got := req.GetOutputAudioSpec().GetContainerAudio().GetContainerAudioType(); got != ttspb.ContainerAudio_WAV {
		t.Fatalf("container = %v, want WAV", got)
	}
	if len(req.GetHints()) != 3 || req.GetHints()[2].GetVolume() != -3 {
		t.Fatalf("hints = %v, want a volume hint", req.GetHints())
	}
}

func TestGetDefaultSynthesisOptions(t *testing.T) {
	if v := GetDefaultSynthesisOptions("").Voice; v != "marina" {
		t.Fatalf("default voice = %q, want marina", v)
	}
}

func TestYandexFormat(t *testing.T) {
	tests := []struct {
		name string
		want ttspb.ContainerAudio_ContainerAudioType
	}{
		{"", ttspb.ContainerAudio_WAV},
		{"wav", ttspb.ContainerAudio_WAV},
		{"MP3", ttspb.ContainerAudio_MP3},
	}
	for _, tt := range tests {
		got, err := YandexFormat(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("YandexFormat(%q) = %v, %v, want %v", tt.name, got, err, tt.want)
		}
	}
	if _, err := YandexFormat("ogg"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("YandexFormat(ogg) error = %v, want ErrUnknownFormat", err)
	}

	opts := GetDefaultSynthesisOptions("")
	opts.Format, _ = YandexFormat("mp3")
	if got := buildRequest("x", opts).GetOutputAudioSpec().GetContainerAudio().GetContainerAudioType(); got != ttspb.ContainerAudio_MP3 {
		t.Fatalf("container = %v, want MP3", got)
	}
}

func TestNewYandexTTSClient_RequiresCredentials(t *testing.T) {
	if _, err := NewYandexTTSClient(YandexConfig{ApiKey: "key"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}

	c, err := NewYandexTTSClient(YandexConfig{ApiKey: "key", FolderID: "folder", Endpoint: "localhost:1"})
	if err != nil {
		t.Fatalf("NewYandexTTSClient() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
