package common

import (
	"encoding/hex"
	"strings"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// ParseAddress parses a 0x-prefixed 40 hex character address in any case.
func ParseAddress(s string) (ethcommon.Address, error) {
	if len(s) != 2+2*ethcommon.AddressLength || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return ethcommon.Address{}, apperror.ErrInvalidAddress(s)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return ethcommon.Address{}, apperror.ErrInvalidAddress(s)
	}
	return ethcommon.BytesToAddress(raw), nil
}

// FormatAddress renders an address as 0x followed by lowercase hex.
func FormatAddress(addr ethcommon.Address) string {
	return "0x" + hex.EncodeToString(addr.Bytes())
}
