package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// Transcript is the chat store.
type Transcript interface {
	Send(ctx context.Context, content string) error
	LoadHistory(ctx context.Context) error
	Clear(ctx context.Context)
	Messages() []domain.ChatMessage
	Awaiting() bool
	Err() string
}

type ChatHandler struct {
	chat Transcript
}

func NewChatHandler(chat Transcript) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) snapshot() chatResponse {
	return chatResponse{
		Messages: nonNil(h.chat.Messages()),
		Awaiting: h.chat.Awaiting(),
		Error:    h.chat.Err(),
	}
}

// History returns the transcript, loading it on first use.
//
// @Summary      Chat transcript
// @Tags         chat
// @Produce      json
// @Success      200  {object}  chatResponse
// @Router       /api/chat [get]
func (h *ChatHandler) History(c echo.Context) error {
	if err := h.chat.LoadHistory(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Send posts a message and waits for the reply.
//
// @Summary      Send chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatRequest  true  "Message"
// @Success      200   {object}  chatResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Send(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.chat.Send(c.Request().Context(), req.Content); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Clear empties the transcript.
//
// @Summary      Clear chat
// @Tags         chat
// @Success      204
// @Router       /api/chat [delete]
func (h *ChatHandler) Clear(c echo.Context) error {
	h.chat.Clear(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
