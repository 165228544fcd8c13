package schemas

// FlowSection is one step of the study flow: a sub-range of the passage with
// paired observation and interpretation questions and an optional transition
// sentence into the next section.
type FlowSection struct {
	PassageSection         string `json:"passage_section"`
	SectionHeading         string `json:"section_heading"`
	ObservationQuestion    string `json:"observation_question"`
	ObservationAnswer      string `json:"observation_answer"`
	InterpretationQuestion string `json:"interpretation_question"`
	InterpretationAnswer   string `json:"interpretation_answer"`
	Connection             string `json:"connection,omitempty"`
}

// CrossReference points at a related passage with a short note on the link.
type CrossReference struct {
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

// Study is the normalized output of a generation: the one shape every
// provider's response is coerced into, and the shape persisted by clients.
type Study struct {
	Purpose              string           `json:"purpose"`
	Context              string           `json:"context"`
	Summary              string           `json:"summary"`
	KeyThemes            []string         `json:"key_themes"`
	StudyFlow            []FlowSection    `json:"study_flow"`
	ApplicationQuestions []string         `json:"application_questions"`
	CrossReferences      []CrossReference `json:"cross_references"`
	PrayerPrompt         string           `json:"prayer_prompt"`

	// IsError marks the degenerate error study. It exists on the wire so
	// downstream consumers have no special "no result" case; orchestration
	// code branches on typed results, not on this field.
	IsError bool `json:"is_error,omitempty"`
}

// Normalize enforces the full-schema invariant: every collection is present,
// empty rather than absent. Callers receive a Study whose fields can all be
// ranged over without nil checks.
func (s *Study) Normalize() {
	if s.KeyThemes == nil {
		s.KeyThemes = []string{}
	}
	if s.StudyFlow == nil {
		s.StudyFlow = []FlowSection{}
	}
	if s.ApplicationQuestions == nil {
		s.ApplicationQuestions = []string{}
	}
	if s.CrossReferences == nil {
		s.CrossReferences = []CrossReference{}
	}
}

// NewErrorStudy builds the degenerate Study returned when generation cannot
// produce a real one. The failure message is substituted into the descriptive
// fields so any renderer of a Study renders the failure too.
func NewErrorStudy(msg string) Study {
	s := Study{
		Purpose:      "Study generation failed.",
		Context:      msg,
		Summary:      msg,
		PrayerPrompt: "",
		IsError:      true,
	}
	s.Normalize()
	return s
}
