package gammaapi

// Market represents a Gamma API market
type Market struct {
	ID            string  `json:"id"`
	ConditionID   string  `json:"conditionId"`
	Slug          string  `json:"slug"`
	Question      string  `json:"question"`
	EndDateISO    string  `json:"endDateIso"`
	Category      string  `json:"category"`
	VolumeNum     float64 `json:"volumeNum"`
	LiquidityNum  float64 `json:"liquidityNum"`
	Active        bool    `json:"active"`
	Closed        bool    `json:"closed"`
	Outcomes      string  `json:"outcomes"`      // JSON array, e.g. ["Yes","No"]
	OutcomePrices string  `json:"outcomePrices"` // JSON array, e.g. ["0.54","0.46"]
}

// Tag represents a Gamma API event tag
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Event represents a Gamma API event
type Event struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Markets  []Market `json:"markets"`
	Category string   `json:"category"`
	Tags     []Tag    `json:"tags"`
	EndDate  string   `json:"endDate"`
	Active   bool     `json:"active"`
	Closed   bool     `json:"closed"`
}
