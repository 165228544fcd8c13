package schemas

import "fmt"

// StudyRequest is the body accepted by the generation endpoint and the input
// to the study service. End chapter/verse default to the start values when
// absent.
type StudyRequest struct {
	Book         string `json:"book"`
	StartChapter int    `json:"start_chapter"`
	StartVerse   int    `json:"start_verse"`
	EndChapter   int    `json:"end_chapter,omitempty"`
	EndVerse     int    `json:"end_verse,omitempty"`

	// Provider pins generation to one specific provider; empty means
	// automatic priority ordering. Model overrides that provider's default.
	Provider ProviderID `json:"provider,omitempty"`
	Model    string     `json:"model,omitempty"`
}

// ApplyDefaults fills the end components from the start components.
func (r *StudyRequest) ApplyDefaults() {
	if r.StartChapter <= 0 {
		r.StartChapter = 1
	}
	if r.StartVerse <= 0 {
		r.StartVerse = 1
	}
	if r.EndChapter <= 0 {
		r.EndChapter = r.StartChapter
	}
	if r.EndVerse <= 0 {
		r.EndVerse = r.StartVerse
	}
}

// Validate checks request shape only; existence of the book against the canon
// is the study service's concern.
func (r *StudyRequest) Validate() error {
	if r.Book == "" {
		return fmt.Errorf("book is required")
	}
	if r.EndChapter < r.StartChapter {
		return fmt.Errorf("end_chapter %d precedes start_chapter %d", r.EndChapter, r.StartChapter)
	}
	if r.EndChapter == r.StartChapter && r.EndVerse < r.StartVerse {
		return fmt.Errorf("end_verse %d precedes start_verse %d", r.EndVerse, r.StartVerse)
	}
	if r.Provider != ProviderAuto && !r.Provider.Known() {
		return fmt.Errorf("unknown provider %q", r.Provider)
	}
	return nil
}

// GenerationResult is the generation endpoint's success payload. When every
// provider fails, Study is the error study and Provider is ProviderError;
// the endpoint still answers 200.
type GenerationResult struct {
	Reference   string     `json:"reference"`
	PassageText string     `json:"passage_text"`
	Study       Study      `json:"study"`
	Provider    ProviderID `json:"provider"`
}
