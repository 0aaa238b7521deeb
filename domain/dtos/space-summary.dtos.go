package dtos

import "github.com/init-pkg/space-summary/domain/app"

type UploadResponse struct {
	Message string `json:"message" example:"File processed successfully"`
	*app.UploadResult
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse mirrors the {"detail": ...} envelope the dashboard already understands.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

type ColumnsNotDetectedDetail struct {
	Error            string   `json:"error"`
	MissingRoles     []string `json:"missing_roles"`
	AvailableColumns []string `json:"available_columns"`
}
