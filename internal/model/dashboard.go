package model

// Holding is one open position (or cash account) inside an asset class.
type Holding struct {
	Name           string  `json:"name"`
	Account        string  `json:"account,omitempty"`     // broker account, folio, PRAN or bank account number
	AccountType    string  `json:"accountType,omitempty"` // epf, ppf, savings, demat...; cash accounts only
	Quantity       float64 `json:"quantity,omitempty"`
	AverageCost    float64 `json:"averageCost,omitempty"`
	Price          float64 `json:"price,omitempty"`
	InvestedValue  float64 `json:"investedValue"`
	MarketValue    float64 `json:"marketValue"`
	UnrealizedGain float64 `json:"unrealizedGain"`
	RealizedGain   float64 `json:"realizedGain"`
	Interest       float64 `json:"interest,omitempty"` // accumulated interest for provident/pension accounts
	XIRR           float64 `json:"xirr"`
}

// DashboardRow summarizes one asset class. Percentages are expressed in
// percent (0-100), allocations against the portfolio totals.
type DashboardRow struct {
	Class               AssetClass `json:"class"`
	Label               string     `json:"label"`
	MarketValue         float64    `json:"marketValue"`
	InvestedValue       float64    `json:"investedValue"`
	SimpleProfit        float64    `json:"simpleProfit"`
	SimpleProfitPercent float64    `json:"simpleProfitPercent"`
	MarketAllocation    float64    `json:"marketAllocation"`
	InvestedAllocation  float64    `json:"investedAllocation"`
	RealizedGain        float64    `json:"realizedGain"`
	XIRR                float64    `json:"xirr"`
	Holdings            int        `json:"holdings"`
	Anomalies           int        `json:"anomalies"`
}

// DashboardSummary holds the whole-portfolio totals.
type DashboardSummary struct {
	TotalMarketValue   float64 `json:"totalMarketValue"`
	TotalInvestedValue float64 `json:"totalInvestedValue"`
	TotalProfit        float64 `json:"totalProfit"`
	ProfitPercent      float64 `json:"profitPercent"`
	TotalRealizedGain  float64 `json:"totalRealizedGain"`
	XIRR               float64 `json:"xirr"`
}

// Dashboard is the computed output handed to the HTTP layer.
type Dashboard struct {
	Rows          []DashboardRow   `json:"rows"`
	Summary       DashboardSummary `json:"summary"`
	Timestamp     string           `json:"timestamp"`
	FailedClasses []AssetClass     `json:"failedClasses,omitempty"`
}

// ClassHoldings is the per-class detail view served by the holdings endpoint.
type ClassHoldings struct {
	Class         AssetClass `json:"class"`
	Label         string     `json:"label"`
	MarketValue   float64    `json:"marketValue"`
	InvestedValue float64    `json:"investedValue"`
	SimpleProfit  float64    `json:"simpleProfit"`
	RealizedGain  float64    `json:"realizedGain"`
	XIRR          float64    `json:"xirr"`
	Anomalies     int        `json:"anomalies"`
	Holdings      []Holding  `json:"holdings"`
	AsOf          string     `json:"asOf"`
	Timestamp     string     `json:"timestamp"`
}
