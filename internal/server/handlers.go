package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jurema-br/nino/internal/chat"
	"github.com/jurema-br/nino/internal/document"
	"github.com/jurema-br/nino/internal/history"
	"github.com/jurema-br/nino/models"
)

// defaultHistoryLimit caps GET /history responses when no limit is given.
const defaultHistoryLimit = 50

type ChatHandler struct {
	Orch         *chat.Orchestrator
	Store        history.Store
	Preprocessor *document.Preprocessor
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.GET("/", h.root)
	e.POST("/chat", h.chat)
	e.POST("/documents/chat", h.documentChat)
	e.GET("/history/:session_id", h.history)
}

func (h *ChatHandler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Olá! Eu sou Nino, seu assistente jurídico brasileiro",
		"description": "Especializado em direito brasileiro e leis institucionais usando modelo Jurema-7B",
		"consultation_types": []string{
			"consultation - Consulta jurídica geral",
			"case_analysis - Análise de caso jurídico",
			"legal_research - Pesquisa jurídica",
			"document_draft - Elaboração de documentos",
			"legislation_search - Busca em legislação",
		},
	})
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req struct {
		Message          string `json:"message"`
		SessionID        string `json:"session_id"`
		ConsultationType string `json:"consultation_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Orch.RunTurn(c.Request().Context(), chat.TurnRequest{
		SessionID:        req.SessionID,
		Message:          req.Message,
		ConsultationType: models.ConsultationType(req.ConsultationType),
	})
	if err != nil {
		return turnHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"response":          res.Response,
		"session_id":        res.SessionID,
		"consultation_type": string(res.ConsultationType),
	})
}

func (h *ChatHandler) documentChat(c echo.Context) error {
	var req struct {
		Text             string `json:"text"`
		Filename         string `json:"filename"`
		Query            string `json:"query"`
		SessionID        string `json:"session_id"`
		ConsultationType string `json:"consultation_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "filename required")
	}

	consultationType := models.ConsultationType(req.ConsultationType)
	if consultationType == "" {
		consultationType = models.Consultation
	}

	message, err := h.Preprocessor.Prepare(req.Text, req.Filename, consultationType, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrEmptyDocument):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, document.ErrTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	res, err := h.Orch.RunTurn(c.Request().Context(), chat.TurnRequest{
		SessionID:        req.SessionID,
		Message:          message,
		ConsultationType: consultationType,
		IsDocument:       true,
		DocumentFilename: req.Filename,
		DocumentType:     string(consultationType),
	})
	if err != nil {
		return turnHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"response":          res.Response,
		"session_id":        res.SessionID,
		"consultation_type": string(res.ConsultationType),
		"filename":          req.Filename,
	})
}

func (h *ChatHandler) history(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	turns, err := h.Store.Recent(c.Request().Context(), sessionID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, models.ErrHistoryUnavailable.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"turns":      turns,
	})
}

// turnHTTPError maps orchestrator failures onto the HTTP surface. Validation
// problems are the caller's fault; generation problems are the backend's.
func turnHTTPError(err error) error {
	var te *models.TurnError
	if !errors.As(err, &te) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	switch te.Kind {
	case models.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, te.Error())
	case models.KindGenerationTimeout:
		return echo.NewHTTPError(http.StatusGatewayTimeout, te.Error())
	case models.KindGeneration:
		return echo.NewHTTPError(http.StatusBadGateway, te.Error())
	default:
		// KindMissingSlot lands here: a structured template rendered without
		// its slot is a server-side wiring bug, not a client error.
		return echo.NewHTTPError(http.StatusInternalServerError, te.Error())
	}
}
