package tts

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	ttspb "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/tts/v3"
)

const (
	YandexTTSEndpoint  = "tts.api.cloud.yandex.net:443"
	DefaultYandexVoice = "marina"
)

var (
	// ErrMissingCredentials is returned when the API key or folder is not set.
	ErrMissingCredentials = errors.New("yandex api key and folder id are required")
	ErrUnknownFormat      = errors.New("unknown audio format")
)

type YandexConfig struct {
	ApiKey   string
	FolderID string
	// Endpoint overrides YandexTTSEndpoint.
	Endpoint string
}

// YandexTTSClient synthesizes speech through the SpeechKit v3 gRPC API.
type YandexTTSClient struct {
	client   ttspb.SynthesizerClient
	conn     *grpc.ClientConn
	apiKey   string
	folderID string
}

var _ Synthesizer = (*YandexTTSClient)(nil)

// GetDefaultSynthesisOptions returns WAV output with loudness
// normalization, the format the clip cache stores.
func GetDefaultSynthesisOptions(voice string) SynthesisOptions {
	if voice == "" {
		voice = DefaultYandexVoice
	}
	return SynthesisOptions{
		Voice:                 voice,
		Speed:                 1.0,
		Model:                 "general",
		Format:                ttspb.ContainerAudio_WAV,
		LoudnessNormalization: ttspb.UtteranceSynthesisRequest_LUFS,
	}
}

// YandexFormat maps a container name ("wav" or "mp3") to the SpeechKit
// container type. Clips are stored under the same locator either way.
func YandexFormat(name string) (ttspb.ContainerAudio_ContainerAudioType, error) {
	switch strings.ToLower(name) {
	case "", "wav":
		return ttspb.ContainerAudio_WAV, nil
	case "mp3":
		return ttspb.ContainerAudio_MP3, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

func NewYandexTTSClient(config YandexConfig) (*YandexTTSClient, error) {
	if config.ApiKey == "" || config.FolderID == "" {
		return nil, ErrMissingCredentials
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = YandexTTSEndpoint
	}

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TTS service: %w", err)
	}

	return &YandexTTSClient{
		client:   ttspb.NewSynthesizerClient(conn),
		conn:     conn,
		apiKey:   config.ApiKey,
		folderID: config.FolderID,
	}, nil
}

func (c *YandexTTSClient) SynthesizeToStreamWithContext(ctx context.Context, text string, options SynthesisOptions, audioData chan<- []byte) error {
	ctx = metadata.AppendToOutgoingContext(ctx,
		"authorization", "Api-Key "+c.apiKey,
		"x-folder-id", c.folderID,
	)

	stream, err := c.client.UtteranceSynthesis(ctx, buildRequest(text, options))
	if err != nil {
		return fmt.Errorf("failed to start synthesis: %w", err)
	}

	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to receive audio data: %w", err)
		}

		chunk := resp.GetAudioChunk()
		if chunk == nil {
			continue
		}
		select {
		case audioData <- chunk.GetData():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func buildRequest(text string, options SynthesisOptions) *ttspb.UtteranceSynthesisRequest {
	req := &ttspb.UtteranceSynthesisRequest{}
	req.SetModel(options.Model)
	req.SetText(text)

	voice := &ttspb.Hints{}
	voice.SetVoice(options.Voice)
	speed := &ttspb.Hints{}
	speed.SetSpeed(options.Speed)
	hints := []*ttspb.Hints{voice, speed}
	if options.Volume != 0 {
		volume := &ttspb.Hints{}
		volume.SetVolume(options.Volume)
		hints = append(hints, volume)
	}
	req.SetHints(hints)

	container := &ttspb.ContainerAudio{}
	if format, ok := options.Format.(ttspb.ContainerAudio_ContainerAudioType); ok {
		container.SetContainerAudioType(format)
	} else {
		container.SetContainerAudioType(ttspb.ContainerAudio_WAV)
	}
	audioFormat := &ttspb.AudioFormatOptions{}
	audioFormat.SetContainerAudio(container)
	req.SetOutputAudioSpec(audioFormat)

	if norm, ok := options.LoudnessNormalization.(ttspb.UtteranceSynthesisRequest_LoudnessNormalizationType); ok {
		req.SetLoudnessNormalizationType(norm)
	} else {
		req.SetLoudnessNormalizationType(ttspb.UtteranceSynthesisRequest_LUFS)
	}

	return req
}

func (c *YandexTTSClient) Close() error {
	return c.conn.Close()
}
