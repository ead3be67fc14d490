package dataapi

// TokenHolders groups the top holders of one outcome token of a market
type TokenHolders struct {
	Token   string   `json:"token"`
	Holders []Holder `json:"holders"`
}

// Holder is one entry in a market's holder listing
type Holder struct {
	ProxyWallet           string  `json:"proxyWallet"`
	Name                  string  `json:"name"`
	Pseudonym             string  `json:"pseudonym"`
	DisplayUsernamePublic bool    `json:"displayUsernamePublic"`
	Amount                float64 `json:"amount"` // raw share count
	OutcomeIndex          int     `json:"outcomeIndex"`
}

// DisplayName returns the holder's public name, honoring the privacy flag.
func (h *Holder) DisplayName() string {
	if h.DisplayUsernamePublic && h.Name != "" {
		return h.Name
	}
	return h.Pseudonym
}

// Position represents one open position of a wallet
type Position struct {
	ProxyWallet  string  `json:"proxyWallet"`
	ConditionID  string  `json:"conditionId"`
	Size         float64 `json:"size"`
	AvgPrice     float64 `json:"avgPrice"`
	InitialValue float64 `json:"initialValue"`
	CurrentValue float64 `json:"currentValue"`
	CashPnL      float64 `json:"cashPnl"`
	RealizedPnL  float64 `json:"realizedPnl"`
	CurPrice     float64 `json:"curPrice"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	EventSlug    string  `json:"eventSlug"`
	Outcome      string  `json:"outcome"`
	OutcomeIndex int     `json:"outcomeIndex"`
}

// Value returns the position's dollar value, preferring the marked value.
func (p *Position) Value() float64 {
	if p.CurrentValue > 0 {
		return p.CurrentValue
	}
	return p.Size
}

// Activity represents one activity record of a wallet
type Activity struct {
	ProxyWallet     string  `json:"proxyWallet"`
	Timestamp       int64   `json:"timestamp"` // Unix seconds
	ConditionID     string  `json:"conditionId"`
	Type            string  `json:"type"` // TRADE, REDEEM, SPLIT, MERGE, ...
	Size            float64 `json:"size"`
	USDCSize        float64 `json:"usdcSize"`
	Price           float64 `json:"price"`
	Side            string  `json:"side"`
	Outcome         string  `json:"outcome"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	EventSlug       string  `json:"eventSlug"`
	TransactionHash string  `json:"transactionHash"`
}

// Activity record types used by this service.
const (
	ActivityTypeTrade  = "TRADE"
	ActivityTypeRedeem = "REDEEM"
)
