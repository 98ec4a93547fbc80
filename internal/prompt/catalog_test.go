package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/jurema-br/nino/models"
)

func TestRenderGenericForNonStructuredTypes(t *testing.T) {
	for _, ct := range []models.ConsultationType{
		models.ConsultationGeneral,
		models.Consultation,
		models.ConsultationType("garbage"),
		models.ConsultationType(""),
	} {
		out, err := Render(ct, map[string]string{SlotQuery: "Qual o prazo para recurso?"})
		if err != nil {
			t.Fatalf("Render(%q): %v", ct, err)
		}
		if !strings.Contains(out, "MENSAGEM/PERGUNTA: Qual o prazo para recurso?") {
			t.Fatalf("Render(%q): query slot not substituted:\n%s", ct, out)
		}
		if strings.Contains(out, "{") {
			t.Fatalf("Render(%q): residual placeholder in output", ct)
		}
	}
}

func TestRenderConsultationNeverUsesStructuredTemplate(t *testing.T) {
	out, err := Render(models.Consultation, map[string]string{SlotQuery: "consulta formal"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "ANÁLISE JURÍDICA") {
		t.Fatalf("consultation must route to the generic template")
	}
	if !strings.Contains(out, "Olá! Sou o Nino") {
		t.Fatalf("expected generic template, got:\n%s", out)
	}
}

func TestRenderStructuredTemplates(t *testing.T) {
	cases := []struct {
		ct     models.ConsultationType
		slots  map[string]string
		expect string
	}{
		{models.ConsultationCase, map[string]string{"case_description": "despejo sem notificação"}, "CASO: despejo sem notificação"},
		{models.ConsultationResearch, map[string]string{"research_topic": "usucapião urbana"}, "TEMA DE PESQUISA: usucapião urbana"},
		{models.ConsultationDraft, map[string]string{"document_type": "contrato", "document_info": "aluguel"}, "TIPO DE DOCUMENTO: contrato"},
		{models.ConsultationLegislation, map[string]string{"legislation_query": "art. 5 CF"}, "CONSULTA LEGISLATIVA: art. 5 CF"},
	}
	for _, c := range cases {
		out, err := Render(c.ct, c.slots)
		if err != nil {
			t.Fatalf("Render(%q): %v", c.ct, err)
		}
		if !strings.Contains(out, c.expect) {
			t.Fatalf("Render(%q): missing %q in output", c.ct, c.expect)
		}
		if strings.Contains(out, "{") {
			t.Fatalf("Render(%q): residual placeholder", c.ct)
		}
	}
}

func TestRenderMissingSlot(t *testing.T) {
	_, err := Render(models.ConsultationCase, map[string]string{})
	var missing *MissingSlotError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSlotError, got %v", err)
	}
	if missing.Slot != "case_description" {
		t.Fatalf("expected case_description slot, got %q", missing.Slot)
	}

	_, err = Render(models.ConsultationDraft, map[string]string{"document_type": "contrato"})
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSlotError for partial draft slots, got %v", err)
	}
	if missing.Slot != "document_info" {
		t.Fatalf("expected document_info slot, got %q", missing.Slot)
	}
}

func TestSlotsBinding(t *testing.T) {
	if got := Slots(models.ConsultationCase, "m")["case_description"]; got != "m" {
		t.Fatalf("case slots: got %q", got)
	}
	draft := Slots(models.ConsultationDraft, "m")
	if draft["document_type"] != "documento legal" || draft["document_info"] != "m" {
		t.Fatalf("draft slots: got %v", draft)
	}
	if got := Slots(models.ConsultationType("weird"), "m")[SlotQuery]; got != "m" {
		t.Fatalf("fallback slots: got %q", got)
	}
}
