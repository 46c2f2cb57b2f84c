package models

// Requests for the engine HTTP endpoints. Defined in domain for consistency and reuse.

type EvaluateRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=12"`
	Period string `query:"period" json:"period" default:"2y" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y"`
}

type ScanRequest struct {
	Domain string `query:"domain" json:"domain"`
	Async  bool   `query:"async" json:"async" default:"false"`
}

type AlertsRequest struct {
	Ticker string `query:"ticker" json:"ticker"`
	Domain string `query:"domain" json:"domain"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
