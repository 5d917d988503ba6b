package http

import (
	"datachat/internal/chat"
	"datachat/internal/dataset"
)

// --- Request DTOs ---

type chatReq struct {
	Message string `json:"message" binding:"required"`
}

func (r chatReq) toInput() chat.TurnInput {
	return chat.TurnInput{Message: r.Message}
}

// --- Response DTOs ---

type uploadResp struct {
	Filename string           `json:"filename"`
	Summary  dataset.Summary  `json:"summary"`
	Preview  []map[string]any `json:"preview"`
}

func (h *handler) newUploadResp(out chat.UploadOutput) uploadResp {
	return uploadResp{
		Filename: out.Filename,
		Summary:  out.Summary,
		Preview:  out.Preview,
	}
}

type chatResp struct {
	Message        string   `json:"message"`
	Visualizations []string `json:"visualizations"`
}

func (h *handler) newChatResp(out chat.TurnOutput) chatResp {
	viz := out.Visualizations
	if viz == nil {
		viz = []string{}
	}
	return chatResp{
		Message:        out.Message,
		Visualizations: viz,
	}
}

type clearResp struct {
	Cleared bool `json:"cleared"`
}
