package dto

import "time"

type AnalyzeRequest struct {
	FileName string `json:"file_name"`
}

type HealthCheckResponse struct {
	ID              string    `json:"id"`
	FileName        string    `json:"file_name"`
	Status          string    `json:"status"`
	Confidence      int       `json:"confidence"`
	Findings        []string  `json:"findings"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}
