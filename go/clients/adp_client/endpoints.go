package adp_client

const (
	// Base URL
	BaseURL = "https://fantasyfootballcalculator.com/api/v1"

	// API Endpoints
	ADPEndpoint = "/adp"

	// Scoring formats
	FormatStandard = "standard"
	FormatPPR      = "ppr"
	FormatHalfPPR  = "half-ppr"

	// Defaults
	DefaultTeams = 12
	DefaultYear  = 2026
)
