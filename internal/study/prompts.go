// File: internal/study/prompts.go
package study

import (
	"fmt"

	"github.com/berea-app/berea/api/schemas"
)

// generateSystemPrompt constructs the instruction set for study generation.
// The JSON shape spelled out here is the one contract every provider is held
// to; the normalizer rejects anything that strays from it.
func generateSystemPrompt() string {
	basePrompt := `You are an experienced Bible study author preparing an inductive study guide.
You write for small-group leaders: clear, faithful to the text, and practical.
Given a passage, produce one complete study and respond with a single JSON object only.`

	return basePrompt + schemaPrompt() + closingPrompt()
}

func schemaPrompt() string {
	return `

Respond with JSON matching exactly this shape:
{
  "purpose": "one-sentence purpose of studying this passage",
  "context": "historical and literary context, 2-4 sentences",
  "summary": "summary of the passage in 2-3 sentences",
  "key_themes": ["theme phrases, 3-6 entries"],
  "study_flow": [
    {
      "passage_section": "sub-range of the passage, e.g. 'John 3:16-18'",
      "section_heading": "short heading for this section",
      "observation_question": "what does the text say?",
      "observation_answer": "answer grounded in the text",
      "interpretation_question": "what does it mean?",
      "interpretation_answer": "answer with reasoning",
      "connection": "optional one-sentence transition to the next section"
    }
  ],
  "application_questions": ["open questions for personal application, no answers"],
  "cross_references": [
    {"reference": "Book C:V", "note": "how it relates"}
  ],
  "prayer_prompt": "a short prompt guiding prayer in response to the passage"
}

Divide the passage into 2-5 study_flow sections covering it completely and in order.
Every field must be present; use empty strings or empty arrays rather than omitting keys.`
}

func closingPrompt() string {
	return `

Your response must be only the JSON object, with no surrounding prose or markdown.`
}

// generateUserPrompt pairs the reference with its text. When the passage text
// could not be fetched the model is asked to work from the reference alone.
func generateUserPrompt(reference, passageText string) string {
	if passageText == "" {
		return fmt.Sprintf("Prepare a study of %s (ESV). Passage text unavailable; rely on your knowledge of the passage.", reference)
	}
	return fmt.Sprintf("Prepare a study of %s.\n\nPassage text (ESV):\n%s", reference, passageText)
}

// studyPrompt assembles the adapter-level request for a full study.
func studyPrompt(reference, passageText, model string) schemas.PromptRequest {
	return schemas.PromptRequest{
		SystemPrompt: generateSystemPrompt(),
		UserPrompt:   generateUserPrompt(reference, passageText),
		Model:        model,
		Options: schemas.GenerationOptions{
			ForceJSONFormat: true,
			Temperature:     0.7,
		},
	}
}

// EnhanceOp names one of the single-field improvement operations.
type EnhanceOp string

const (
	OpRephrase        EnhanceOp = "rephrase"
	OpShorten         EnhanceOp = "shorten"
	OpImproveQuestion EnhanceOp = "improve_question"
)

// enhancePrompt assembles the plain-text request for an enhancement call.
func enhancePrompt(op EnhanceOp, text, reference string) (schemas.PromptRequest, error) {
	var instruction string
	switch op {
	case OpRephrase:
		instruction = "Rephrase the following study text, keeping its meaning and roughly its length."
	case OpShorten:
		instruction = "Shorten the following study text to at most half its length, keeping the core point."
	case OpImproveQuestion:
		instruction = "Improve the following study question: make it more open-ended and specific to the passage."
	default:
		return schemas.PromptRequest{}, fmt.Errorf("unknown enhancement operation %q", op)
	}

	return schemas.PromptRequest{
		SystemPrompt: fmt.Sprintf(
			"You are editing part of a Bible study on %s. Respond with the revised text only, no commentary or markdown.", reference),
		UserPrompt: instruction + "\n\n" + text,
		Options: schemas.GenerationOptions{
			Temperature: 0.7,
		},
	}, nil
}
