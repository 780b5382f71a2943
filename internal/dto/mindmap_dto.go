package dto

import "intituas-ai-be/pkg/capability"

type MindMapRequest struct {
	DocumentContent string `json:"documentContent" validate:"required,notblank,max=50000"`
}

type MindMapResponse struct {
	MindMap *capability.MindMapNode `json:"mindMap,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func (r MindMapResponse) Failed() bool {
	return r.Error != ""
}
