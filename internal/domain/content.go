package domain

import "strings"

type ContentKind string

const (
	KindText  ContentKind = "text"
	KindPDF   ContentKind = "pdf"
	KindImage ContentKind = "image"
)

// ContentItem is the unit moving through the localization pipeline. Text is
// the canonical representation and is overwritten (never appended) by each
// extraction, translation, or localization stage; CurrentLanguage always
// names the language of Text at that instant.
type ContentItem struct {
	Kind             ContentKind
	RawPayload       []byte
	FileName         string
	Text             string
	DetectedLanguage string
	CurrentLanguage  string
}

// UserProfile is supplied whole by the caller on every request and treated
// as an immutable input record. Fields beyond PreferredLanguage are opaque
// prompt context.
type UserProfile struct {
	PreferredLanguage string `json:"preferredLanguage"`
	Country           string `json:"country,omitempty"`
	Age               int    `json:"age,omitempty"`
	LearningStyle     string `json:"learningStyle,omitempty"`
}

type LocalizedResult struct {
	LocalizedContent string `json:"localizedContent"`
	DetectedLanguage string `json:"detectedLanguage"`
	WorkingLanguage  string `json:"workingLanguage"`
}

// NormalizeLang lowercases a language tag and strips any region subtag, so
// "en-US" and "EN" both become "en". Supported-set membership and cache
// fingerprints use the normalized form.
func NormalizeLang(tag string) string {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}
	return lang
}
