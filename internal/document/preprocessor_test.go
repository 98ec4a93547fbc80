package document

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/models"
)

func testConfig() config.DocumentConfig {
	return config.DocumentConfig{MaxChars: 8000, ChunkChars: 1200, MaxUploadMB: 10}
}

func TestCleanNormalizesWhitespace(t *testing.T) {
	in := "  Cláusula   1\t \n\n\n\n  Cláusula 2  \n"
	want := "Cláusula 1\n\nCláusula 2"
	if got := Clean(in); got != want {
		t.Fatalf("Clean:\nwant %q\ngot  %q", want, got)
	}
}

func TestPrepareRejectsEmptyDocument(t *testing.T) {
	p := NewPreprocessor(testConfig(), nil)
	_, err := p.Prepare("   \n\t  ", "vazio.txt", models.Consultation, "")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestPrepareRejectsOversizedUpload(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadMB = 1
	p := NewPreprocessor(cfg, nil)
	_, err := p.Prepare(strings.Repeat("a", 2*1024*1024), "grande.txt", models.Consultation, "")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestPrepareFramesByConsultationType(t *testing.T) {
	p := NewPreprocessor(testConfig(), nil)
	cases := []struct {
		ctype  models.ConsultationType
		header string
	}{
		{models.ConsultationCase, "📄 ANÁLISE DE DOCUMENTO: contrato.pdf"},
		{models.ConsultationDraft, "📄 REVISÃO/ELABORAÇÃO BASEADA EM: contrato.pdf"},
		{models.ConsultationResearch, "📄 PESQUISA JURÍDICA BASEADA EM: contrato.pdf"},
		{models.Consultation, "📄 CONSULTA SOBRE DOCUMENTO: contrato.pdf"},
		{models.ConsultationGeneral, "📄 CONSULTA SOBRE DOCUMENTO: contrato.pdf"},
	}
	for _, tc := range cases {
		got, err := p.Prepare("Cláusula primeira: do objeto.", "contrato.pdf", tc.ctype, "")
		if err != nil {
			t.Fatalf("Prepare(%s): %v", tc.ctype, err)
		}
		if !strings.HasPrefix(got, tc.header) {
			t.Fatalf("type %s: expected header %q, got %q", tc.ctype, tc.header, firstLine(got))
		}
		if !strings.Contains(got, "Cláusula primeira: do objeto.") {
			t.Fatalf("type %s: document text missing from framed message", tc.ctype)
		}
	}
}

func TestPrepareShortDocumentIsNotTruncated(t *testing.T) {
	p := NewPreprocessor(testConfig(), nil)
	got, err := p.Prepare("texto curto", "doc.txt", models.Consultation, "qual o prazo?")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if strings.Contains(got, truncationMarker) {
		t.Fatalf("short document should not carry a truncation marker")
	}
}

func TestPrepareOversizedWithoutQueryKeepsHead(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChars = 200
	p := NewPreprocessor(cfg, nil)
	text := strings.Repeat("início do documento. ", 5) + strings.Repeat("final irrelevante. ", 50)
	got, err := p.Prepare(text, "doc.txt", models.Consultation, "")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !strings.Contains(got, truncationMarker) {
		t.Fatalf("oversized document should carry a truncation marker")
	}
	if !strings.Contains(got, "início do documento.") {
		t.Fatalf("prefix cut should keep the head of the document")
	}
}

func TestPrepareOversizedSelectsRelevantChunks(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChars = 300
	cfg.ChunkChars = 120
	p := NewPreprocessor(cfg, nil)

	filler := strings.Repeat("Disposições gerais sobre o condomínio edilício e suas áreas comuns. ", 8)
	relevant := "A rescisão contratual por inadimplemento está prevista na cláusula décima, com multa de dez por cento."
	text := filler + "\n\n" + relevant + "\n\n" + filler

	got, err := p.Prepare(text, "contrato.txt", models.ConsultationCase, "rescisão por inadimplemento multa")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !strings.Contains(got, "rescisão contratual por inadimplemento") {
		t.Fatalf("relevant passage missing from selected excerpt:\n%s", got)
	}
	if !strings.Contains(got, truncationMarker) {
		t.Fatalf("selected excerpt should carry a truncation marker")
	}
}

func TestPrefixCutKeepsRuneBoundary(t *testing.T) {
	// 40 bytes of two-byte runes; a 25-byte budget lands mid-rune.
	text := strings.Repeat("ã", 20)
	got := prefixCut(text, 25)
	if !utf8.ValidString(got) {
		t.Fatalf("prefix cut produced invalid UTF-8: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("ã", 12)) || strings.HasPrefix(got, strings.Repeat("ã", 13)) {
		t.Fatalf("expected cut after 12 runes, got %q", got)
	}
}

func TestSplitKeepsRuneBoundary(t *testing.T) {
	parts := split(strings.Repeat("ã", 30), 5)
	if len(parts) == 0 {
		t.Fatalf("expected chunks")
	}
	for i, p := range parts {
		if !utf8.ValidString(p) {
			t.Fatalf("chunk %d contains invalid UTF-8: %q", i, p)
		}
		if len(p) > 5 {
			t.Fatalf("chunk %d exceeds limit: %d bytes", i, len(p))
		}
	}
}

func TestSplitPacksParagraphs(t *testing.T) {
	parts := split("um\n\ndois\n\n"+strings.Repeat("x", 50), 20)
	if len(parts) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(parts))
	}
	for i, p := range parts {
		if len(p) > 20 {
			t.Fatalf("chunk %d exceeds limit: %d chars", i, len(p))
		}
	}
	if parts[0] != "um\n\ndois" {
		t.Fatalf("expected small paragraphs packed together, got %q", parts[0])
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
