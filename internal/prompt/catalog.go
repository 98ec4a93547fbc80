// Package prompt holds the immutable prompt templates and the routing policy
// that maps a consultation type to the template shaping the assistant's reply.
package prompt

import (
	"fmt"
	"strings"

	"github.com/jurema-br/nino/models"
)

// SlotQuery is the single slot of the generic conversational template.
const SlotQuery = "query"

// MissingSlotError reports a structured template rendered without one of its
// required slots. This is an integration bug in the caller, fatal to the turn.
type MissingSlotError struct {
	Type models.ConsultationType
	Slot string
}

func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("template %q requires slot %q", e.Type, e.Slot)
}

type template struct {
	text  string
	slots []string
}

// Only the four structured types carry a dedicated template. "consultation"
// deliberately routes to the generic template: friendliness over rigid
// structure, so structured-consultation requests never see a structured form.
var structured = map[models.ConsultationType]template{
	models.ConsultationCase:        {caseAnalysisTemplate, []string{"case_description"}},
	models.ConsultationResearch:    {legalResearchTemplate, []string{"research_topic"}},
	models.ConsultationDraft:       {documentDraftTemplate, []string{"document_type", "document_info"}},
	models.ConsultationLegislation: {legislationSearchTemplate, []string{"legislation_query"}},
}

// Render resolves the template for the consultation type and substitutes the
// given slot values. Unrecognized types fall back to the generic template,
// which binds only the "query" slot and therefore cannot fail on slots.
func Render(t models.ConsultationType, slots map[string]string) (string, error) {
	tpl, ok := structured[t]
	if !ok {
		return fill(generalConversationTemplate, map[string]string{SlotQuery: slots[SlotQuery]}), nil
	}
	for _, slot := range tpl.slots {
		if _, ok := slots[slot]; !ok {
			return "", &MissingSlotError{Type: t, Slot: slot}
		}
	}
	return fill(tpl.text, slots), nil
}

// Slots builds the default slot binding for a raw user message, mirroring how
// each structured template reads the message.
func Slots(t models.ConsultationType, message string) map[string]string {
	switch t {
	case models.ConsultationCase:
		return map[string]string{"case_description": message}
	case models.ConsultationResearch:
		return map[string]string{"research_topic": message}
	case models.ConsultationDraft:
		// Free-text drafting requests arrive without a declared document kind
		return map[string]string{"document_type": "documento legal", "document_info": message}
	case models.ConsultationLegislation:
		return map[string]string{"legislation_query": message}
	default:
		return map[string]string{SlotQuery: message}
	}
}

func fill(text string, slots map[string]string) string {
	pairs := make([]string, 0, len(slots)*2)
	for name, value := range slots {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
