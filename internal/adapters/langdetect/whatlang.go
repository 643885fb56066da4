// Package langdetect guesses the language of free text.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
)

// codes maps the detectable languages to the codes the engine renders.
var codes = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Hin: "hi",
}

// WhatlangDetector implements ports.LanguageDetector with whatlanggo,
// restricted to the languages the knowledge bases are written in.
type WhatlangDetector struct {
	opts whatlanggo.Options
}

// NewWhatlangDetector creates a detector.
func NewWhatlangDetector() *WhatlangDetector {
	whitelist := make(map[whatlanggo.Lang]bool, len(codes))
	for lang := range codes {
		whitelist[lang] = true
	}
	return &WhatlangDetector{opts: whatlanggo.Options{Whitelist: whitelist}}
}

// Detect returns "en" or "hi", or ports.ErrUndetectable when the text has
// no letters in a supported script.
func (d *WhatlangDetector) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ports.ErrUndetectable
	}
	info := whatlanggo.DetectWithOptions(text, d.opts)
	if info.Script == nil {
		return "", ports.ErrUndetectable
	}
	code, ok := codes[info.Lang]
	if !ok {
		return "", ports.ErrUndetectable
	}
	return code, nil
}
