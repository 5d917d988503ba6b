package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"datachat/internal/chat"
)

// processChatReq binds and validates the chat request body.
func (h *handler) processChatReq(c *gin.Context) (chatReq, error) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, chat.ErrEmptyMessage
	}
	return req, nil
}

// processUploadReq reads the multipart file field. The read is capped one
// byte past the configured ceiling so oversize files fail without being
// buffered whole.
func (h *handler) processUploadReq(c *gin.Context) (chat.UploadInput, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return chat.UploadInput{}, chat.ErrInvalidFileType
	}
	if fileHeader.Size > h.cfg.MaxUploadBytes {
		return chat.UploadInput{}, chat.ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return chat.UploadInput{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		return chat.UploadInput{}, err
	}
	if int64(len(data)) > h.cfg.MaxUploadBytes {
		return chat.UploadInput{}, chat.ErrFileTooLarge
	}

	return chat.UploadInput{
		Filename: fileHeader.Filename,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}
