package speech

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Synthesis is one TTS request: the text and the prosody to render it with.
// Rate and Pitch are multipliers where 1.0 is the voice's natural delivery.
type Synthesis struct {
	Text   string
	Voice  string
	Locale string
	Rate   float64
	Pitch  float64
}

// AzureOption configures the Azure TTS client.
type AzureOption func(*AzureClient)

// WithVoice sets the voice used when a request names none.
func WithVoice(voice string) AzureOption {
	return func(c *AzureClient) {
		c.voice = voice
	}
}

// WithAudioFormat sets the audio output format.
func WithAudioFormat(format string) AzureOption {
	return func(c *AzureClient) {
		c.format = format
	}
}

// WithHTTPTimeout sets the HTTP client timeout for TTS requests.
func WithHTTPTimeout(d time.Duration) AzureOption {
	return func(c *AzureClient) {
		c.httpClient.Timeout = d
	}
}

// WithBaseURL overrides the regional endpoint, e.g. for a proxy.
func WithBaseURL(u string) AzureOption {
	return func(c *AzureClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRequestsPerMinute throttles synthesis requests. Zero or less
// disables throttling.
func WithRequestsPerMinute(n int) AzureOption {
	return func(c *AzureClient) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// AzureClient handles text-to-speech synthesis via Azure Cognitive Services.
type AzureClient struct {
	subscriptionKey string
	region          string
	baseURL         string
	voice           string
	format          string
	httpClient      *http.Client
	limiter         *rate.Limiter
	log             *logger.Logger
}

// Voice returns the default voice name.
func (c *AzureClient) Voice() string { return c.voice }

// NewAzureClient creates an Azure TTS client with the given credentials.
func NewAzureClient(key, region string, log *logger.Logger, opts ...AzureOption) *AzureClient {
	c := &AzureClient{
		subscriptionKey: key,
		region:          region,
		baseURL:         fmt.Sprintf("https://%s.tts.speech.microsoft.com", region),
		voice:           DefaultVoice,
		format:          DefaultAudioFormat,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), DefaultRequestsPerMinute),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Synthesize converts text to speech audio data (WAV bytes).
func (c *AzureClient) Synthesize(ctx context.Context, s Synthesis) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tts throttled: %w", err)
	}

	voice := s.Voice
	if voice == "" {
		voice = c.voice
	}
	ssml := buildSSML(s, voice)
	c.log.Debug("azure tts: synthesizing %d chars with voice %s", len(s.Text), voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cognitiveservices/v1", strings.NewReader(ssml))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", c.format)
	req.Header.Set("User-Agent", "VitalsVoice/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("azure tts error %d: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio data: %w", err)
	}

	c.log.Debug("azure tts: got %d bytes of audio", len(audioData))
	return audioData, nil
}

// azureVoice is one entry of the voices/list response.
type azureVoice struct {
	ShortName   string `json:"ShortName"`
	DisplayName string `json:"DisplayName"`
	Locale      string `json:"Locale"`
	Gender      string `json:"Gender"`
}

// Voices lists the voices available in the client's region.
func (c *AzureClient) Voices(ctx context.Context) ([]domain.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cognitiveservices/voices/list", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("azure voices error %d: %s", resp.StatusCode, string(body))
	}

	var raw []azureVoice
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding voices: %w", err)
	}

	voices := make([]domain.Voice, 0, len(raw))
	for _, v := range raw {
		voices = append(voices, domain.Voice{
			Name:        v.ShortName,
			DisplayName: v.DisplayName,
			Locale:      v.Locale,
			Gender:      v.Gender,
		})
	}
	c.log.Debug("azure tts: %d voices available in %s", len(voices), c.region)
	return voices, nil
}

// buildSSML creates SSML markup for the synthesis request.
func buildSSML(s Synthesis, voice string) string {
	locale := s.Locale
	if locale == "" {
		locale = "en-US"
	}

	var text strings.Builder
	_ = xml.EscapeText(&text, []byte(s.Text))

	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' name='%s'><prosody rate='%s' pitch='%s'>%s</prosody></voice></speak>`,
		locale, locale, voice, relativePercent(s.Rate), relativePercent(s.Pitch), text.String(),
	)
}

// relativePercent renders a multiplier as an SSML relative change:
// 1.2 -> "+20%", 0.9 -> "-10%". Zero means unset and renders "+0%".
func relativePercent(m float64) string {
	if m == 0 {
		return "+0%"
	}
	pct := int(math.Round((m - 1) * 100))
	if pct >= 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}
