package model

// PayRequest represents request for POST /wallet/pay
type PayRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"` // ETH, up to 18 decimals
}

// PayResponse represents response for POST /wallet/pay
type PayResponse struct {
	TxID      string `json:"txId"`
	From      string `json:"from"`
	To        string `json:"to"`
	AmountWei string `json:"amountWei"`
	Amount    string `json:"amount"`
}
