package models

// HealthResponse is returned by the detection service health probe.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	IndexReady  bool   `json:"index_ready"`
	Version     string `json:"version"`
}

// UploadResponse is returned by the upload and paste endpoints.
type UploadResponse struct {
	Success        bool   `json:"success"`
	Filename       string `json:"filename"`
	ContentType    string `json:"content_type"`
	Size           int64  `json:"size"`
	Text           string `json:"text"`
	CharacterCount int    `json:"character_count"`
	WordCount      int    `json:"word_count"`
}

// PasteRequest is the body of the paste endpoint.
type PasteRequest struct {
	Text string `json:"text"`
}

// CheckRequest is the body of the detection check endpoint.
type CheckRequest struct {
	Text            string  `json:"text"`
	Filename        string  `json:"filename,omitempty"`
	ThresholdHigh   float64 `json:"threshold_high"`
	ThresholdMedium float64 `json:"threshold_medium"`
}

// Highlight groups a chunk's text with the matches the service found for it.
type Highlight struct {
	Text    string  `json:"text"`
	Matches []Match `json:"matches"`
}

// CheckStats summarizes a check.
type CheckStats struct {
	TotalChunks  int `json:"total_chunks"`
	TotalMatches int `json:"total_matches"`
	DatabaseSize int `json:"database_size"`
}

// CheckResponse is returned by the detection check endpoint.
type CheckResponse struct {
	Success    bool              `json:"success"`
	Result     *DocumentResult   `json:"result"`
	Error      string            `json:"error,omitempty"`
	Highlights map[int]Highlight `json:"highlights,omitempty"`
	Stats      *CheckStats       `json:"stats,omitempty"`
}

// StatsResponse is returned by the detection service stats endpoint.
type StatsResponse struct {
	Success bool `json:"success"`
	Stats   struct {
		TotalDocuments int `json:"total_documents"`
		IndexSize      int `json:"index_size"`
	} `json:"stats"`
}

// RebuildIndexResponse is returned by the rebuild-index endpoint.
type RebuildIndexResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorDetail is the error body returned by the detection service on non-2xx responses.
type ErrorDetail struct {
	Detail string `json:"detail"`
}
