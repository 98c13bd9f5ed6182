package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is the closed set of failure categories a wallet operation can report.
type Kind int

const (
	KindIO Kind = iota + 1
	KindParse
	KindCrypto
	KindNetwork
	KindPrecondition
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindCrypto:
		return "crypto"
	case KindNetwork:
		return "network"
	case KindPrecondition:
		return "precondition"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

// AppError is a structured error carrying its Kind and a stable code.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindIO:
		if e.Code == "IO_001" {
			return http.StatusNotFound
		}
		if e.Code == "IO_003" {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	case KindParse, KindInput:
		return http.StatusBadRequest
	case KindCrypto:
		return http.StatusUnprocessableEntity
	case KindNetwork:
		return http.StatusBadGateway
	case KindPrecondition:
		if e.Code == "PRE_002" {
			return http.StatusTooManyRequests
		}
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError.
func New(kind Kind, code string, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the Kind of the first AppError in err's chain, or 0.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ---- I/O (IO) ----

func ErrFileNotFound(path string) *AppError {
	return New(KindIO, "IO_001", fmt.Sprintf("file %s does not exist", path))
}

func ErrFileAccess(message string, err error) *AppError {
	return Wrap(KindIO, "IO_002", message, err)
}

func ErrWalletExists() *AppError {
	return New(KindIO, "IO_003", "wallet file is not empty")
}

// ---- Parse / format (PARSE) ----

func ErrMalformedRecord(err error) *AppError {
	return Wrap(KindParse, "PARSE_001", "malformed wallet record", err)
}

func ErrMalformedHex(field string, err error) *AppError {
	return Wrap(KindParse, "PARSE_002", fmt.Sprintf("malformed %s", field), err)
}

func ErrInvalidAddress(address string) *AppError {
	return New(KindParse, "PARSE_003", fmt.Sprintf("invalid address %q", address))
}

// ---- Cryptographic format (CRYPTO) ----

func ErrPublicKeyFormat(marker byte) *AppError {
	return New(KindCrypto, "CRYPTO_001", fmt.Sprintf("unexpected public key marker 0x%02x", marker))
}

func ErrKeyMismatch(message string) *AppError {
	return New(KindCrypto, "CRYPTO_002", message)
}

// ---- Network (NET) ----

func ErrDial(err error) *AppError {
	return Wrap(KindNetwork, "NET_001", "failed to connect to ledger node", err)
}

func ErrRPC(op string, err error) *AppError {
	return Wrap(KindNetwork, "NET_002", fmt.Sprintf("%s failed", op), err)
}

// ---- Precondition (PRE) ----

func ErrInsufficientFunds() *AppError {
	return New(KindPrecondition, "PRE_001", "insufficient funds")
}

func ErrCooldown(remaining time.Duration) *AppError {
	return New(KindPrecondition, "PRE_002", fmt.Sprintf("cooldown active, please wait %v", remaining.Round(time.Second)))
}

// ---- Input (INPUT) ----

func ErrInvalidAmount(err error) *AppError {
	return Wrap(KindInput, "INPUT_001", "invalid amount", err)
}

func ErrWordListTooSmall(have, want int) *AppError {
	return New(KindInput, "INPUT_002", fmt.Sprintf("word list has %d unique words, need %d", have, want))
}

func ErrEmptyPhrase() *AppError {
	return New(KindInput, "INPUT_003", "seed phrase contains no words")
}
