package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Limits are exported for reuse by the config defaults.
const (
	TextMinDefault = 10
	TextMaxDefault = 100000

	GeminiKeyMin  = 20
	OpenAIKeyMin  = 20
	WeatherKeyMin = 10

	OpenAIKeyPrefix = "sk-"
)

// CSVDelimiters lists the accepted single-character CSV delimiters.
var CSVDelimiters = []string{",", ";", "\t", "|", ":"}

// Sentinel errors for classification by callers.
var (
	ErrInvalidURL       = errors.New("invalid URL")
	ErrTextLength       = errors.New("invalid text length")
	ErrInvalidAPIKey    = errors.New("invalid API key")
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	ErrUnsupportedLang  = errors.New("unsupported language")
	ErrUnsupportedModel = errors.New("unsupported model")
)

// OpenAIModels lists the chat models accepted by chat_with_openai.
var OpenAIModels = []string{
	"gpt-4", "gpt-4-turbo", "gpt-4-turbo-preview", "gpt-4o", "gpt-4o-mini",
	"gpt-3.5-turbo", "gpt-3.5-turbo-16k",
}

// ValidateURL checks that s parses as an absolute http or https URL with a host.
func ValidateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%w: URL cannot be empty", ErrInvalidURL)
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: URL must include scheme (http/https) and domain", ErrInvalidURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: URL must use http or https protocol", ErrInvalidURL)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: URL must include a host name", ErrInvalidURL)
	}
	return nil
}

// ValidateTextLength checks the character count of s against [min, max].
// A max of zero disables the upper bound.
func ValidateTextLength(s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		return fmt.Errorf("%w: text must be at least %d characters long", ErrTextLength, min)
	}
	if max > 0 && n > max {
		return fmt.Errorf("%w: text must be no more than %d characters long", ErrTextLength, max)
	}
	return nil
}

// ValidateAPIKey applies the provider-specific shape rules to key.
// kind is one of "openai", "gemini", "weather"; other kinds only require non-empty.
func ValidateAPIKey(key, kind string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: %s API key cannot be empty", ErrInvalidAPIKey, kind)
	}
	switch strings.ToLower(kind) {
	case "openai":
		if !strings.HasPrefix(key, OpenAIKeyPrefix) {
			return fmt.Errorf("%w: OpenAI API key must start with %q", ErrInvalidAPIKey, OpenAIKeyPrefix)
		}
		if len(key) < OpenAIKeyMin {
			return fmt.Errorf("%w: OpenAI API key appears too short", ErrInvalidAPIKey)
		}
	case "gemini":
		if len(key) < GeminiKeyMin {
			return fmt.Errorf("%w: Gemini API key appears too short", ErrInvalidAPIKey)
		}
	case "weather":
		if len(key) < WeatherKeyMin {
			return fmt.Errorf("%w: Weather API key appears too short", ErrInvalidAPIKey)
		}
	}
	return nil
}

// ValidateCSVDelimiter accepts one of CSVDelimiters.
func ValidateCSVDelimiter(d string) error {
	if d == "" {
		return fmt.Errorf("%w: delimiter cannot be empty", ErrInvalidDelimiter)
	}
	if utf8.RuneCountInString(d) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character", ErrInvalidDelimiter)
	}
	for _, ok := range CSVDelimiters {
		if d == ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (common delimiters: %s)", ErrInvalidDelimiter, d, strings.Join(CSVDelimiters, ", "))
}

var languages = map[string]struct{}{}

func init() {
	for _, l := range []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh", "ar", "hi",
		"nl", "sv", "da", "no", "fi", "pl", "tr", "he", "th", "vi", "id", "ms",
		"english", "spanish", "french", "german", "italian", "portuguese",
		"russian", "japanese", "korean", "chinese", "arabic", "hindi",
		"dutch", "swedish", "danish", "norwegian", "finnish", "polish",
		"turkish", "hebrew", "thai", "vietnamese", "indonesian", "malay",
	} {
		languages[l] = struct{}{}
	}
}

// ValidateLanguage accepts common ISO 639-1 codes and English language names.
func ValidateLanguage(lang string) error {
	trimmed := strings.ToLower(strings.TrimSpace(lang))
	if trimmed == "" {
		return fmt.Errorf("%w: language cannot be empty", ErrUnsupportedLang)
	}
	if _, ok := languages[trimmed]; !ok {
		return fmt.Errorf("%w: %s. Please use common language names or ISO codes", ErrUnsupportedLang, lang)
	}
	return nil
}

// ValidateOpenAIModel accepts one of OpenAIModels.
func ValidateOpenAIModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("%w: model name cannot be empty", ErrUnsupportedModel)
	}
	for _, m := range OpenAIModels {
		if model == m {
			return nil
		}
	}
	return fmt.Errorf("%w: '%s'. Supported models: %s", ErrUnsupportedModel, model, strings.Join(OpenAIModels, ", "))
}

// SanitizeFilename replaces characters that are invalid in file names and
// never returns an empty string.
func SanitizeFilename(name string) string {
	if name == "" {
		return "untitled"
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" {
		return "untitled"
	}
	return name
}
