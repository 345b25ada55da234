package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"nubit-transcribe/backend/internal/retry"
)

// StatusError is a non-2xx reply from the transcription service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription http %d: %s", e.Code, e.Body)
}

// WhisperBackend posts the file and language as a multipart form and expects
// {"text": "..."} back.
type WhisperBackend struct {
	url     string
	client  *http.Client
	retrier retry.Retrier
}

func NewWhisperBackend(url string, client *http.Client) *WhisperBackend {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Minute}
	}
	return &WhisperBackend{
		url:    url,
		client: client,
		retrier: retry.Retrier{
			Attempts:  3,
			Delay:     time.Second,
			Retryable: retryableHTTP,
		},
	}
}

func (w *WhisperBackend) Name() string { return "whisper" }

type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

func (w *WhisperBackend) Transcribe(ctx context.Context, req Request) (*Transcript, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, req.Body); err != nil {
		return nil, err
	}
	if err := mw.WriteField("language", req.Language); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	payload := body.Bytes()

	var parsed whisperResponse
	err = w.retrier.Do(ctx, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", mw.FormDataContentType())
		resp, err := w.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		}
		return json.NewDecoder(resp.Body).Decode(&parsed)
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return nil, ErrEmptyTranscript
	}
	language := parsed.Language
	if language == "" {
		language = req.Language
	}
	return &Transcript{
		Text:     parsed.Text,
		Language: language,
		Backend:  w.Name(),
		Duration: time.Duration(parsed.Duration * float64(time.Second)),
	}, nil
}

// retryableHTTP retries transport errors and 5xx replies only.
func retryableHTTP(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	var syntaxErr *json.SyntaxError
	return !errors.As(err, &syntaxErr)
}
