// Package document turns uploaded document text into chat messages. Text
// arrives already extracted (the API accepts text, not binary uploads); this
// package validates it, normalizes whitespace, bounds its size, and frames it
// for the consultation type at hand.
package document

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/models"
)

var (
	ErrEmptyDocument = errors.New("document text is empty")
	ErrTooLarge      = errors.New("document exceeds the upload size limit")
)

var (
	multiBlankLines = regexp.MustCompile(`\n\s*\n\s*\n`)
	runsOfSpaces    = regexp.MustCompile(`[ \t]+`)
)

// Preprocessor prepares document text for a chat turn.
type Preprocessor struct {
	maxChars   int
	chunkChars int
	maxBytes   int
	logger     *log.Logger
}

func NewPreprocessor(cfg config.DocumentConfig, logger *log.Logger) *Preprocessor {
	if logger == nil {
		logger = log.New(log.Writer(), "[DOCUMENT] ", log.LstdFlags)
	}
	return &Preprocessor{
		maxChars:   cfg.MaxChars,
		chunkChars: cfg.ChunkChars,
		maxBytes:   cfg.MaxUploadMB * 1024 * 1024,
		logger:     logger,
	}
}

// Prepare validates, cleans, bounds, and frames document text into the
// synthetic user message for a turn. For text over the character budget the
// most relevant passages are selected against the user's question; with no
// question to rank against, the head of the document is kept.
func (p *Preprocessor) Prepare(text, filename string, consultationType models.ConsultationType, query string) (string, error) {
	if len(text) > p.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(text), p.maxBytes)
	}
	clean := Clean(text)
	if clean == "" {
		return "", ErrEmptyDocument
	}
	bounded, err := p.bound(clean, query)
	if err != nil {
		// Selection is an optimization; a plain cut preserves the turn.
		p.logger.Printf("excerpt selection failed, falling back to prefix cut: %v", err)
		bounded = prefixCut(clean, p.maxChars)
	}
	return Frame(bounded, filename, consultationType), nil
}

func (p *Preprocessor) bound(text, query string) (string, error) {
	if len(text) <= p.maxChars {
		return text, nil
	}
	if strings.TrimSpace(query) == "" {
		return prefixCut(text, p.maxChars), nil
	}
	idx, err := newChunkIndex(text, p.chunkChars)
	if err != nil {
		return "", err
	}
	defer idx.Close()
	selected, err := idx.Select(query, p.maxChars)
	if err != nil {
		return "", err
	}
	if selected == "" {
		return prefixCut(text, p.maxChars), nil
	}
	return selected + "\n\n" + truncationMarker, nil
}

const truncationMarker = "[... texto truncado para brevidade ...]"

func prefixCut(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:runeBoundary(text, maxChars)] + "\n\n" + truncationMarker
}

// runeBoundary returns the largest offset <= max that does not split a rune.
func runeBoundary(s string, max int) int {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}

// Clean normalizes extracted document text: collapses runs of blank lines and
// horizontal whitespace, trims every line, strips leading/trailing emptiness.
func Clean(text string) string {
	text = multiBlankLines.ReplaceAllString(text, "\n\n")
	text = runsOfSpaces.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Frame wraps bounded document text in the instruction block for the
// consultation type.
func Frame(text, filename string, consultationType models.ConsultationType) string {
	switch consultationType {
	case models.ConsultationCase:
		return fmt.Sprintf(`📄 ANÁLISE DE DOCUMENTO: %s

CONTEÚDO DO DOCUMENTO:
%s

Por favor, analise este documento jurídico considerando:
1. Aspectos legais relevantes
2. Possíveis irregularidades ou questões jurídicas
3. Fundamentação legal aplicável
4. Recomendações e próximos passos

Forneça uma análise completa e estruturada.`, filename, text)

	case models.ConsultationDraft:
		return fmt.Sprintf(`📄 REVISÃO/ELABORAÇÃO BASEADA EM: %s

DOCUMENTO BASE:
%s

Com base neste documento, preciso de auxílio para:
1. Revisão jurídica do conteúdo
2. Sugestões de melhorias
3. Identificação de cláusulas problemáticas
4. Adequação à legislação vigente

Forneça orientações para aprimoramento do documento.`, filename, text)

	case models.ConsultationResearch:
		return fmt.Sprintf(`📄 PESQUISA JURÍDICA BASEADA EM: %s

DOCUMENTO PARA ANÁLISE:
%s

Solicito pesquisa jurídica relacionada aos temas e questões presentes neste documento:
1. Legislação aplicável aos casos mencionados
2. Jurisprudência relevante
3. Doutrina sobre os temas abordados
4. Precedentes dos tribunais superiores

Forneça fundamentação jurídica abrangente.`, filename, text)

	default:
		return fmt.Sprintf(`📄 CONSULTA SOBRE DOCUMENTO: %s

CONTEÚDO:
%s

Preciso de orientação jurídica sobre este documento. Por favor, analise o conteúdo e forneça:
1. Principais questões jurídicas identificadas
2. Legislação aplicável
3. Riscos ou oportunidades jurídicas
4. Recomendações práticas

Aguardo sua análise especializada.`, filename, text)
	}
}
