package http

import (
	"errors"
	"net/http"

	"datachat/internal/chat"
	pkgErrors "datachat/pkg/errors"
)

// mapError translates domain errors into HTTP errors from pkg/errors.
// Categories: validation 400, not-found 404, upstream 502.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, chat.ErrInvalidFileType),
		errors.Is(err, chat.ErrFileTooLarge),
		errors.Is(err, chat.ErrInvalidCSV),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMessageTooLong):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, chat.ErrSessionNotFound),
		errors.Is(err, chat.ErrNoDataset),
		errors.Is(err, chat.ErrChartNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, chat.ErrUpstream):
		return pkgErrors.NewHTTPError(http.StatusBadGateway, err.Error())

	default:
		return pkgErrors.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
