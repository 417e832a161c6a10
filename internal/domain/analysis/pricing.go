package analysis

import "math"

// Price per 1k tokens in USD
type Price struct {
	InputPer1K  float64
	OutputPer1K float64
}

// PricingTable model name -> price. Injected from config so stale prices are a config change.
type PricingTable map[string]Price

// DefaultPricing used when config carries no pricing section
func DefaultPricing() PricingTable {
	return PricingTable{
		"gpt-4o": {InputPer1K: 0.005, OutputPer1K: 0.015},
	}
}

// Cost estimates the USD cost of u for model. Returns nil when the model is not priced.
func (t PricingTable) Cost(model string, u Usage) *float64 {
	p, ok := t[model]
	if !ok {
		return nil
	}
	c := float64(u.PromptTokens)/1000*p.InputPer1K + float64(u.CompletionTokens)/1000*p.OutputPer1K
	c = roundUSD(c)
	return &c
}

func roundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
