package config

// Market represents one market the brokerage serves
type Market struct {
	Name      string    `json:"name"`
	Center    []float64 `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// SupportedMarkets is the list of markets served by the brokerage
var SupportedMarkets = []Market{
	{
		Name:      "Houston",
		Center:    []float64{29.7604, -95.3698},
		ZoomLevel: 11,
	},
	{
		Name:      "Galveston",
		Center:    []float64{29.3013, -94.7977},
		ZoomLevel: 12,
	},
	{
		Name:      "Austin",
		Center:    []float64{30.2672, -97.7431},
		ZoomLevel: 11,
	},
	// Add more markets here as needed
}

// GetMarketNames returns a list of supported market names
func GetMarketNames() []string {
	names := make([]string, len(SupportedMarkets))
	for i, market := range SupportedMarkets {
		names[i] = market.Name
	}
	return names
}

// GetMarketByName returns a market configuration by name
func GetMarketByName(name string) *Market {
	for _, market := range SupportedMarkets {
		if market.Name == name {
			return &market
		}
	}
	return nil
}
