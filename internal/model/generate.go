package model

// RecoverRequest represents request for POST /wallet/recover
type RecoverRequest struct {
	Phrase    string `json:"phrase"`
	Overwrite bool   `json:"overwrite"`
}

// GenerateRequest represents request for POST /wallet/generate
type GenerateRequest struct {
	Overwrite bool `json:"overwrite"`
}

// GenerateResponse represents response for POST /wallet/generate and /wallet/recover
type GenerateResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Address    string   `json:"address,omitempty"`
	PublicKey  string   `json:"publicKey,omitempty"`
	SeedPhrase []string `json:"seedPhrase,omitempty"`
}

// WalletResponse represents response for GET /wallet. The secret key is never returned.
type WalletResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	QR        string `json:"QR"` // base64 PNG of the address
}
