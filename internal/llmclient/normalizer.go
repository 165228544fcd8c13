package llmclient

import (
	"fmt"
	"regexp"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/berea-app/berea/api/schemas"
)

// fenceRegex robustly extracts the body of a markdown code block, tolerating
// an optional "json" language tag after the opening fence.
var fenceRegex = regexp.MustCompile(fmt.Sprintf("(?s)%s(?:json)?\\s*(.*?)\\s*%s", "```", "```"))

// StripFences trims the text and, when it is wrapped in a markdown code
// fence, returns only the enclosed body. Applying it to text without fences
// returns the trimmed text unchanged, so the operation is idempotent.
func StripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if matches := fenceRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return raw
}

// ParseStudy normalizes a raw provider payload into a validated Study:
// fence-stripping, JSON decoding, and rejection of payloads that declare
// themselves errors or carry no study content. Providers sometimes pad JSON
// with prose, so when the stripped text is not a bare object the outermost
// brace pair is extracted before decoding.
func ParseStudy(provider schemas.ProviderID, raw string) (schemas.Study, error) {
	text := StripFences(raw)
	if text == "" {
		return schemas.Study{}, &ParseError{Provider: provider, Reason: "empty response"}
	}

	if !strings.HasPrefix(text, "{") {
		first := strings.Index(text, "{")
		last := strings.LastIndex(text, "}")
		if first == -1 || last <= first {
			return schemas.Study{}, &ParseError{Provider: provider, Reason: "no JSON object in response"}
		}
		text = text[first : last+1]
	}

	var study schemas.Study
	if err := json.Unmarshal([]byte(text), &study); err != nil {
		return schemas.Study{}, &ParseError{Provider: provider, Reason: "invalid JSON", Err: err}
	}

	// An upstream layer can signal "could not produce a study" through the
	// same channel as a malformed response.
	if study.IsError {
		return schemas.Study{}, &ParseError{Provider: provider, Reason: "upstream declared an error study"}
	}
	if study.Purpose == "" && len(study.StudyFlow) == 0 {
		return schemas.Study{}, &ParseError{Provider: provider, Reason: "decoded object carries no study content"}
	}

	study.Normalize()
	return study, nil
}

// ParseText normalizes a plain-text completion (the enhancement calls):
// fence-stripping and trimming only, no JSON decoding.
func ParseText(provider schemas.ProviderID, raw string) (string, error) {
	text := StripFences(raw)
	if text == "" {
		return "", &ParseError{Provider: provider, Reason: "empty response"}
	}
	return text, nil
}
