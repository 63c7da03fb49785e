// Package normalize canonicalizes free-form user input such as book languages.
package normalize

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes, which BCP 47 does not accept, to
// their ISO 639-1 equivalents.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var bibliographic = map[string]string{
	"ger": "de", "fre": "fr", "dut": "nl", "chi": "zh", "cze": "cs",
	"gre": "el", "per": "fa", "rum": "ro", "slo": "sk", "alb": "sq",
	"arm": "hy", "baq": "eu", "bur": "my", "geo": "ka", "ice": "is",
	"mac": "mk", "may": "ms", "tib": "bo", "wel": "cy",
}

// languageNames maps English language names people type into a form field.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var languageNames = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "dutch": "nl", "russian": "ru",
	"japanese": "ja", "chinese": "zh", "korean": "ko", "arabic": "ar",
	"hindi": "hi", "polish": "pl", "swedish": "sv", "norwegian": "no",
	"danish": "da", "finnish": "fi", "turkish": "tr", "greek": "el",
	"hebrew": "he", "czech": "cs", "hungarian": "hu", "romanian": "ro",
	"ukrainian": "uk", "catalan": "ca", "persian": "fa", "farsi": "fa",
	"latin": "la", "irish": "ga", "welsh": "cy", "icelandic": "is",
}

// LanguageCode converts a language code, locale or English name to its
// shortest ISO 639 code: "en-US", "eng" and "English" all become "en".
// Unrecognized input returns "".
func LanguageCode(raw string) string {
	s := strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
	if s == "" {
		return ""
	}

	if code, ok := languageNames[s]; ok {
		return code
	}
	if code, ok := bibliographic[s]; ok {
		return code
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No || display.English.Languages().Name(base) == "" {
		return ""
	}
	return base.String()
}

// Language converts any representation LanguageCode accepts to an English
// display name, e.g. "deu" -> "German". Unrecognized input returns "".
func Language(raw string) string {
	code := LanguageCode(raw)
	if code == "" {
		return ""
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(base)
}

// sanitizeString drops null bytes, which pasted or imported text sometimes carries.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
