package clients

// ADPSource identifies an average-draft-position data provider. The source
// string is stored verbatim on consensus rows, so renaming an entry here
// orphans previously seeded data.
type ADPSource string

const (
	// ADPSourceFFCStandard is FantasyFootballCalculator standard scoring.
	ADPSourceFFCStandard ADPSource = "ffc_standard"

	// ADPSourceFFCPPR is FantasyFootballCalculator full-point PPR scoring.
	ADPSourceFFCPPR ADPSource = "ffc_ppr"

	// ADPSourceFFCHalfPPR is FantasyFootballCalculator half-point PPR scoring.
	ADPSourceFFCHalfPPR ADPSource = "ffc_half_ppr"

	// ADPSourceManual represents manually entered data.
	ADPSourceManual ADPSource = "manual"
)

// ADPSourceConfig holds configuration for ADP providers.
type ADPSourceConfig struct {
	Source ADPSource `json:"source"`
	Name   string    `json:"name"`
	Format string    `json:"format"` // scoring format segment in the provider URL
	Active bool      `json:"active"`
}

// GetADPSources returns all configured ADP providers.
func GetADPSources() map[ADPSource]ADPSourceConfig {
	return map[ADPSource]ADPSourceConfig{
		ADPSourceFFCStandard: {
			Source: ADPSourceFFCStandard,
			Name:   "FFC Standard",
			Format: "standard",
			Active: true,
		},
		ADPSourceFFCPPR: {
			Source: ADPSourceFFCPPR,
			Name:   "FFC PPR",
			Format: "ppr",
			Active: true,
		},
		ADPSourceFFCHalfPPR: {
			Source: ADPSourceFFCHalfPPR,
			Name:   "FFC Half PPR",
			Format: "half-ppr",
			Active: true,
		},
		ADPSourceManual: {
			Source: ADPSourceManual,
			Name:   "Manual Entry",
			Format: "",
			Active: true,
		},
	}
}

// ValidateADPSource checks if the source is valid.
func ValidateADPSource(source ADPSource) bool {
	sources := GetADPSources()
	_, exists := sources[source]
	return exists
}
