package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address  string  `json:"address"`
	Wei      string  `json:"wei"`
	ETH      string  `json:"eth"`
	ETHFloat float64 `json:"ethFloat"` // display only
	Currency string  `json:"currency,omitempty"`
	Rate     string  `json:"rate,omitempty"`
	Value    string  `json:"value,omitempty"` // ETH * rate
}
