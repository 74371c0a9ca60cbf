package ark

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"kothaboli/internal/config"
	"kothaboli/internal/pkg/id"
)

const (
	defaultTTSAPIURL    = "https://openspeech.bytedance.com/api/v1/tts"
	defaultTTSCluster   = "volcano_tts"
	defaultVoice        = "bn-kore"
	defaultSampleRateHz = 24000

	ttsOKCode = 3000
)

// Audio synthesized speech.
// Raw 16-bit little-endian PCM, single channel, at SampleRate.
type Audio struct {
	PCM        []byte
	SampleRate int
}

// TTSClient narrates story passages through the speech synthesis API
type TTSClient struct {
	apiURL      string
	accessToken string
	voice       string
	sampleRate  int
	httpClient  *http.Client
}

// NewTTSClient creates a speech synthesis client
func NewTTSClient(cfg *config.TTSConfig) (*TTSClient, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("TTS access token is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultTTSAPIURL
	}
	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}
	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRateHz
	}

	return &TTSClient{
		apiURL:      apiURL,
		accessToken: cfg.AccessToken,
		voice:       voice,
		sampleRate:  sampleRate,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Synthesize narrates text and returns the decoded PCM audio
func (c *TTSClient) Synthesize(ctx context.Context, text string) (*Audio, error) {
	requestID := id.New()
	reqBody, err := json.Marshal(c.buildRequest(text, requestID))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer; %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("request_id", requestID).Int("text_runes", len([]rune(text))).Msg("sending TTS request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse TTS response: %w", err)
	}
	if apiResp.Code != ttsOKCode {
		message := apiResp.Message
		if message == "" {
			message = "unknown error"
		}
		return nil, fmt.Errorf("TTS response error: %s (code: %d)", message, apiResp.Code)
	}
	if apiResp.Data == "" {
		return nil, fmt.Errorf("audio data not found in response")
	}

	pcm, err := base64.StdEncoding.DecodeString(apiResp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio data: %w", err)
	}

	return &Audio{PCM: pcm, SampleRate: c.sampleRate}, nil
}

func (c *TTSClient) buildRequest(text, requestID string) map[string]interface{} {
	return map[string]interface{}{
		"app": map[string]interface{}{
			"token":   c.accessToken,
			"cluster": defaultTTSCluster,
		},
		"user": map[string]interface{}{
			"uid": requestID,
		},
		"audio": map[string]interface{}{
			"voice_type":  c.voice,
			"encoding":    "pcm",
			"sample_rate": c.sampleRate,
			"speed_ratio": 1.0,
		},
		"request": map[string]interface{}{
			"reqid":     requestID,
			"text":      text,
			"text_type": "plain",
			"operation": "query",
		},
	}
}
