package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrEmptyTranscript     = errors.New("no result returned")
)

// Formats lists the accepted media extensions, upper-case without the dot.
var Formats = []string{
	"MP3", "WAV", "FLAC", "M4A", "AAC", "OGG", "WMA",
	"MP4", "AVI", "MOV", "MKV", "FLV", "WEBM",
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
}

// Request is one media file to transcribe.
type Request struct {
	Filename string
	Language string
	Body     io.Reader
}

type Transcript struct {
	Text     string        `json:"text"`
	Language string        `json:"language"`
	Backend  string        `json:"backend"`
	Duration time.Duration `json:"duration"`
}

// Backend is a pluggable transcription service.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, req Request) (*Transcript, error)
}

// Validate checks the file extension and language code.
func Validate(filename, language string) error {
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !supportedFormat(ext) {
		if ext == "" {
			return fmt.Errorf("%w: file %q has no extension", ErrUnsupportedFormat, filename)
		}
		return fmt.Errorf("%w: file extension '.%s' is not supported", ErrUnsupportedFormat, strings.ToLower(ext))
	}
	if !SupportedLanguage(language) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return nil
}

func SupportedLanguage(code string) bool {
	for _, lang := range Languages {
		if strings.EqualFold(lang.Code, code) {
			return true
		}
	}
	return false
}

func supportedFormat(ext string) bool {
	for _, format := range Formats {
		if format == ext {
			return true
		}
	}
	return false
}
