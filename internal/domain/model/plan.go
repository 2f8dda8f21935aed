package model

// Plan represents a purchasable subscription tier as the backend advertises it.
type Plan struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Amount       int64  `json:"amount"` // minor currency units, integer to avoid float errors
	Currency     string `json:"currency"`
	Description  string `json:"description"`
}

func (p *Plan) IsZero() bool { return p == nil || p.Code == "" }
