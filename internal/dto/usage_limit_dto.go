package dto

import "time"

type UsageLimitResponse struct {
	Limit   int       `json:"limit"`
	Used    int64     `json:"used"`
	ResetAt time.Time `json:"resetAt"`
}
