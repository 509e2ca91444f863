package twelvedata

// Raw response shapes. Numeric fields stay strings at this boundary;
// normalize.go is the only place they become numbers.

type quoteResponse struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Close         string `json:"close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	Volume        string `json:"volume"`
	FiftyTwoWeek  struct {
		High string `json:"high"`
		Low  string `json:"low"`
	} `json:"fifty_two_week"`
}

type timeSeriesResponse struct {
	Values []barValue `json:"values"`
	Status string     `json:"status"`
}

type barValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type profileResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

type earningsResponse struct {
	Earnings []earningsQuarter `json:"earnings"`
}

// earningsQuarter is one reported quarter, most recent first
type earningsQuarter struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
	EPS     string `json:"eps"`
}

type statisticsResponse struct {
	MarketCapitalization  string `json:"market_capitalization"`
	TrailingPE            string `json:"trailing_pe"`
	Beta                  string `json:"beta"`
	EPSEstimateNextYear   string `json:"eps_estimate_next_year"`
	EPSActualPreviousYear string `json:"eps_actual_previous_year"`
	RevenueGrowthEstimate string `json:"revenue_growth_estimate"`
	AnalystTargetPrice    string `json:"analyst_target_price"`
	AnalystRatingCount    string `json:"analyst_rating_count"`
}

type moversResponse struct {
	Values []moverValue `json:"values"`
}

type moverValue struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Last          string `json:"last"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	Volume        string `json:"volume"`
}
