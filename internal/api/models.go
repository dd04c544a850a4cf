package api

import "github.com/mikedutoitzs/floogleads/internal/models"

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type InputRequest struct {
	URL      string `json:"url"`
	Location string `json:"location"`
}

type StepRequest struct {
	Step int `json:"step"`
}

type RefineRequest struct {
	Location string `json:"location"`
	Currency string `json:"currency"`
}

type KeywordRequest struct {
	Term string `json:"term"`
	Type string `json:"type"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

type AssetRequest struct {
	Value string `json:"value"`
}

// ImageResult reports whether an image was produced alongside the new state.
type ImageResult struct {
	Generated bool                 `json:"generated"`
	State     models.CampaignState `json:"state"`
}
