package embedding

import "sync"

// PricePer1KTokens maps embedding models to USD cost per 1000 tokens.
var PricePer1KTokens = map[string]float64{
	"text-embedding-3-small": 0.00002,
	"text-embedding-3-large": 0.00013,
}

// defaultPricePer1K applies to models without a published price entry.
const defaultPricePer1K = 0.00002

// CostForTokens computes the USD cost of a token count for a model.
func CostForTokens(model string, tokens int) float64 {
	price, ok := PricePer1KTokens[model]
	if !ok {
		price = defaultPricePer1K
	}
	return float64(tokens) / 1000 * price
}

// UsageSnapshot is a point-in-time copy of cumulative provider usage.
type UsageSnapshot struct {
	Requests     int     `json:"request_count"`
	TotalTokens  int     `json:"total_tokens"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	Model        string  `json:"model"`
}

// usageAccount tracks cumulative requests, tokens, and derived cost.
// Counters only grow; reset is an explicit operator action. The mutex
// keeps a client shareable across goroutines without corrupting totals.
type usageAccount struct {
	mu           sync.Mutex
	requests     int
	totalTokens  int
	totalCostUSD float64
	model        string
}

func newUsageAccount(model string) *usageAccount {
	return &usageAccount{model: model}
}

// record adds one successful request's token count and derived cost.
func (u *usageAccount) record(tokens int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests++
	u.totalTokens += tokens
	u.totalCostUSD += CostForTokens(u.model, tokens)
}

// snapshot returns a copy of the current totals.
func (u *usageAccount) snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UsageSnapshot{
		Requests:     u.requests,
		TotalTokens:  u.totalTokens,
		TotalCostUSD: u.totalCostUSD,
		Model:        u.model,
	}
}

// reset zeroes all counters.
func (u *usageAccount) reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests = 0
	u.totalTokens = 0
	u.totalCostUSD = 0
}
