package usecase

import (
	"context"
	"errors"

	"datachat/internal/chat"
	"datachat/internal/chat/repository"
)

// Visualization resolves a chart name to its file. A valid session is
// required, but charts are not bound to the session that created them:
// names are unguessable and chart files outlive their session.
func (uc *implUseCase) Visualization(ctx context.Context, sessionID, name string) (chat.VizOutput, error) {
	if _, err := uc.repo.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return chat.VizOutput{}, chat.ErrSessionNotFound
		}
		return chat.VizOutput{}, err
	}

	path, ok := uc.charts.Path(name)
	if !ok {
		return chat.VizOutput{}, chat.ErrChartNotFound
	}
	return chat.VizOutput{Name: name, Path: path}, nil
}

// Clear deletes the session: dataset, summary and transcript. Chart files
// stay behind until the retention TTL reclaims them.
func (uc *implUseCase) Clear(ctx context.Context, sessionID string) error {
	return uc.repo.DeleteSession(ctx, sessionID)
}
