package http

import (
	"github.com/gin-gonic/gin"

	"datachat/internal/chat"
	"datachat/pkg/response"
)

// Upload godoc
// @Summary     Upload a CSV file
// @Description Parses a CSV file, installs it as the session dataset and returns its summary and preview. Creates the session when absent.
// @Tags        Chat
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "CSV file"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad file type, oversize or parse failure"
// @Router      /api/upload [POST]
func (h *handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	sid := ensureSession(c)

	input, err := h.processUploadReq(c)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	output, err := h.uc.Upload(ctx, sid, input)
	if err != nil {
		h.l.Errorf(ctx, "uc.Upload: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newUploadResp(output))
}

// Chat godoc
// @Summary     Send a chat message
// @Description Runs one conversation turn about the uploaded dataset, dispatching any tool calls the model requests.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body body chatReq true "User message"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Empty or oversized message"
// @Failure     404 {object} response.Resp "No session or no dataset"
// @Failure     502 {object} response.Resp "Model API failure"
// @Router      /api/chat [POST]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	sid, ok := sessionID(c)
	if !ok {
		response.Error(c, h.mapError(chat.ErrSessionNotFound), nil)
		return
	}

	req, err := h.processChatReq(c)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	output, err := h.uc.Chat(ctx, sid, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Chat: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newChatResp(output))
}

// Visualization godoc
// @Summary     Fetch a rendered chart
// @Description Serves the PNG bytes of a chart created during a chat turn.
// @Tags        Chat
// @Produce     png
// @Param       name path string true "Chart reference"
// @Success     200 {file} file
// @Failure     404 {object} response.Resp "Unknown chart or no session"
// @Router      /api/viz/{name} [GET]
func (h *handler) Visualization(c *gin.Context) {
	ctx := c.Request.Context()

	sid, ok := sessionID(c)
	if !ok {
		response.Error(c, h.mapError(chat.ErrSessionNotFound), nil)
		return
	}

	output, err := h.uc.Visualization(ctx, sid, c.Param("name"))
	if err != nil {
		h.l.Errorf(ctx, "uc.Visualization: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	c.Header("Content-Type", "image/png")
	c.File(output.Path)
}

// ClearSession godoc
// @Summary     Clear the session
// @Description Deletes the session's dataset and transcript and expires the cookie. Idempotent.
// @Tags        Chat
// @Produce     json
// @Success     200 {object} response.Resp
// @Router      /api/session/clear [POST]
func (h *handler) ClearSession(c *gin.Context) {
	ctx := c.Request.Context()

	if sid, ok := sessionID(c); ok {
		if err := h.uc.Clear(ctx, sid); err != nil {
			h.l.Errorf(ctx, "uc.Clear: %v", err)
			response.Error(c, h.mapError(err), nil)
			return
		}
	}
	expireSession(c)

	response.OK(c, clearResp{Cleared: true})
}
