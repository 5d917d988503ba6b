package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"datachat/internal/chat"
	"datachat/internal/chat/repository"
	"datachat/internal/dataset"
)

// Upload validates and parses a CSV upload, then swaps it in as the
// session's dataset. The previous dataset stays untouched on any failure:
// the file is parsed fully before the session is modified.
func (uc *implUseCase) Upload(ctx context.Context, sessionID string, input chat.UploadInput) (chat.UploadOutput, error) {
	if !strings.HasSuffix(strings.ToLower(input.Filename), ".csv") {
		return chat.UploadOutput{}, chat.ErrInvalidFileType
	}
	if input.Size > uc.cfg.MaxUploadBytes || int64(len(input.Data)) > uc.cfg.MaxUploadBytes {
		return chat.UploadOutput{}, fmt.Errorf("%w (limit %d bytes)", chat.ErrFileTooLarge, uc.cfg.MaxUploadBytes)
	}

	tbl, err := dataset.Parse(input.Filename, bytes.NewReader(input.Data))
	if err != nil {
		return chat.UploadOutput{}, fmt.Errorf("%w: %v", chat.ErrInvalidCSV, err)
	}

	session, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			return chat.UploadOutput{}, err
		}
		session = chat.NewSession(sessionID)
	}

	summary := tbl.Summary()
	preview := tbl.Preview(uc.cfg.PreviewRows)

	// Replace the dataset; the transcript survives, subsequent turns get a
	// system context describing the new dataset.
	session.Table = tbl
	session.Filename = input.Filename
	session.UploadedAt = time.Now()
	session.Summary = &summary
	session.Preview = preview

	if err := uc.repo.SaveSession(ctx, session); err != nil {
		return chat.UploadOutput{}, err
	}

	uc.l.Infof(ctx, "uploaded %s: %d rows, %d columns", input.Filename, summary.Shape.Rows, summary.Shape.Columns)

	return chat.UploadOutput{
		Filename: input.Filename,
		Summary:  summary,
		Preview:  preview,
	}, nil
}
