package model

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// TransferState is the stage a transfer has reached within one pay flow.
type TransferState string

const (
	TransferBuilt     TransferState = "BUILT"
	TransferSigned    TransferState = "SIGNED"
	TransferSubmitted TransferState = "SUBMITTED"
)

// Transfer is a value transfer from the wallet address.
// Nonce, gas and chain id are left to the ledger client.
type Transfer struct {
	From  ethcommon.Address
	To    ethcommon.Address
	Value *big.Int // wei
	State TransferState
	Raw   []byte // signed transaction bytes, set once SIGNED
	TxID  string // set once SUBMITTED
}
