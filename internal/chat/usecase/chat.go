package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"datachat/internal/agent/orchestrator"
	"datachat/internal/agent/tools"
	"datachat/internal/chat"
	"datachat/internal/chat/repository"
	"datachat/pkg/gemini"
)

// Chat runs one conversation turn. The user's message is appended to the
// transcript before the model call; on upstream failure the user turn is
// retained and the error surfaces immediately, without retry.
func (uc *implUseCase) Chat(ctx context.Context, sessionID string, input chat.TurnInput) (chat.TurnOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return chat.TurnOutput{}, chat.ErrEmptyMessage
	}
	if len(message) > uc.cfg.MaxMessageChars {
		return chat.TurnOutput{}, fmt.Errorf("%w (limit %d chars)", chat.ErrMessageTooLong, uc.cfg.MaxMessageChars)
	}

	session, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return chat.TurnOutput{}, chat.ErrSessionNotFound
		}
		return chat.TurnOutput{}, err
	}
	if session.Table == nil {
		return chat.TurnOutput{}, chat.ErrNoDataset
	}

	session.Contents = append(session.Contents, gemini.Content{
		Role:  gemini.RoleUser,
		Parts: []gemini.Part{{Text: message}},
	})

	registry := tools.NewRegistry(session.Table, uc.evaluator, uc.renderer, uc.charts)
	out, err := uc.orch.RunTurn(ctx, orchestrator.TurnInput{
		SystemInstruction: gemini.BuildAnalystPrompt(orchestrator.BuildDatasetContext(session.Table)),
		Contents:          session.Contents,
		Registry:          registry,
	})
	if err != nil {
		// Keep the user turn so a later retry by the user sees it.
		if saveErr := uc.repo.SaveSession(ctx, session); saveErr != nil {
			uc.l.Errorf(ctx, "failed to save session after upstream error: %v", saveErr)
		}
		return chat.TurnOutput{}, fmt.Errorf("%w: %v", chat.ErrUpstream, err)
	}

	session.Contents = append(session.Contents, out.Appended...)
	session.Contents = append(session.Contents, gemini.Content{
		Role:  gemini.RoleModel,
		Parts: []gemini.Part{{Text: out.Text}},
	})
	session.Charts = append(session.Charts, out.Visualizations...)

	if err := uc.repo.SaveSession(ctx, session); err != nil {
		return chat.TurnOutput{}, err
	}

	return chat.TurnOutput{
		Message:        out.Text,
		Visualizations: out.Visualizations,
	}, nil
}
