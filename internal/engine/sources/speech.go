package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

// maxAudioBytes is the upload limit of the Whisper transcription endpoint.
const maxAudioBytes = 25 << 20

// ErrAudioTooLarge means the audio exceeds the transcription upload limit.
var ErrAudioTooLarge = errors.New("audio too large")

// AudioSource opens the audio track of a video. The returned name carries the
// file extension the transcription endpoint uses to detect the container.
type AudioSource interface {
	OpenAudio(ctx context.Context, videoID string) (io.ReadCloser, string, error)
}

// SpeechConfig configures the speech-to-text fetcher.
type SpeechConfig struct {
	APIKey     string
	BaseURL    string // OpenAI-compatible API root; empty = api.openai.com
	Model      string
	HTTPClient *http.Client
	Audio      AudioSource // nil = download from YouTube
}

// Speech transcribes a video's audio when no captions exist.
type Speech struct {
	audio    AudioSource
	client   *openai.Client
	model    string
	maxBytes int64
}

// NewSpeech returns nil when no API key is configured.
func NewSpeech(cfg SpeechConfig) *Speech {
	if cfg.APIKey == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}
	s := &Speech{
		audio:    cfg.Audio,
		client:   openai.NewClientWithConfig(oc),
		model:    cfg.Model,
		maxBytes: maxAudioBytes,
	}
	if s.audio == nil {
		s.audio = &YouTubeAudio{Client: youtube.Client{HTTPClient: cfg.HTTPClient}}
	}
	if s.model == "" {
		s.model = openai.Whisper1
	}
	return s
}

// FetchTranscript downloads the audio of videoID and returns its transcription.
func (s *Speech) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	engine.IncrTranscript()

	rc, name, err := s.audio.OpenAudio(ctx, videoID)
	if err != nil {
		engine.IncrTranscriptError()
		return "", fmt.Errorf("audio %s: %w", videoID, err)
	}
	defer rc.Close()

	// Streams of unknown length are only checked against the cap here.
	data, err := io.ReadAll(io.LimitReader(rc, s.maxBytes+1))
	if err != nil {
		engine.IncrTranscriptError()
		return "", fmt.Errorf("audio %s: %w", videoID, err)
	}
	if int64(len(data)) > s.maxBytes {
		engine.IncrTranscriptError()
		return "", fmt.Errorf("audio %s: %w: over %d bytes", videoID, ErrAudioTooLarge, s.maxBytes)
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: name,
		Reader:   bytes.NewReader(data),
	})
	if err != nil {
		engine.IncrTranscriptError()
		return "", fmt.Errorf("transcribe %s: %w", videoID, err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		engine.IncrTranscriptError()
		return "", fmt.Errorf("transcribe %s: %w", videoID, ErrNoTranscript)
	}

	engine.IncrSpeechTranscription()
	slog.Debug("speech: transcribed audio",
		slog.String("id", videoID), slog.Int("chars", len(text)))
	return text, nil
}

// YouTubeAudio streams the smallest audio-only format of a YouTube video.
type YouTubeAudio struct {
	Client youtube.Client
}

// OpenAudio implements AudioSource.
func (a *YouTubeAudio) OpenAudio(ctx context.Context, videoID string) (io.ReadCloser, string, error) {
	video, err := a.Client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, "", fmt.Errorf("video info: %w", err)
	}
	format, ok := pickAudioFormat(video.Formats)
	if !ok {
		return nil, "", errors.New("no audio-only format")
	}
	if format.ContentLength > maxAudioBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrAudioTooLarge, format.ContentLength)
	}
	stream, _, err := a.Client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, "", fmt.Errorf("audio stream: %w", err)
	}
	return stream, videoID + audioExt(format.MimeType), nil
}

// pickAudioFormat returns the audio-only format with the lowest bitrate.
func pickAudioFormat(formats youtube.FormatList) (*youtube.Format, bool) {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate < best.Bitrate {
			best = f
		}
	}
	return best, best != nil
}

// audioExt maps an audio MIME type to a file extension Whisper accepts.
func audioExt(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/webm"):
		return ".webm"
	case strings.HasPrefix(mimeType, "audio/mp4"):
		return ".m4a"
	case strings.HasPrefix(mimeType, "audio/mpeg"):
		return ".mp3"
	default:
		return ".mp4"
	}
}
