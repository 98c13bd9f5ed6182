package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
)

//go:generate mockgen -source=ethereum.go -destination=mocks/mock_ledger.go -package=mocks

// Ledger is the remote node a wallet talks to.
type Ledger interface {
	// BalanceOf returns the latest balance of addr in wei.
	BalanceOf(ctx context.Context, addr ethcommon.Address) (*big.Int, error)
	// Sign fills in nonce, gas and chain id for t and returns the signed
	// transaction bytes. The key is used locally only.
	Sign(ctx context.Context, t *model.Transfer, key *ecdsa.PrivateKey) ([]byte, error)
	// Submit broadcasts a signed transaction and returns its hash.
	Submit(ctx context.Context, raw []byte) (string, error)
}

// EthereumClient is a Ledger backed by an Ethereum JSON-RPC node
type EthereumClient struct {
	rpcClient *ethclient.Client
}

// NewEthereumClient dials the node at rawURL.
func NewEthereumClient(ctx context.Context, rawURL string) (*EthereumClient, error) {
	if rawURL == "" {
		return nil, apperror.ErrDial(errors.New("empty RPC URL"))
	}
	c, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, apperror.ErrDial(err)
	}
	return &EthereumClient{rpcClient: c}, nil
}

// NewEthereumClientFromRPC wraps an already connected RPC client.
func NewEthereumClientFromRPC(c *rpc.Client) *EthereumClient {
	return &EthereumClient{rpcClient: ethclient.NewClient(c)}
}

// Close releases the underlying connection.
func (c *EthereumClient) Close() {
	c.rpcClient.Close()
}

// BalanceOf gets the balance in wei at the latest block
func (c *EthereumClient) BalanceOf(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	balance, err := c.rpcClient.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, apperror.ErrRPC("eth_getBalance", err)
	}
	return balance, nil
}

// Sign builds a legacy value transfer and signs it for the node's chain.
func (c *EthereumClient) Sign(ctx context.Context, t *model.Transfer, key *ecdsa.PrivateKey) ([]byte, error) {
	if t == nil || t.Value == nil {
		return nil, errors.New("transfer has no value")
	}
	if ethcrypto.PubkeyToAddress(key.PublicKey) != t.From {
		return nil, apperror.ErrKeyMismatch("signing key does not match transfer sender")
	}

	nonce, err := c.rpcClient.PendingNonceAt(ctx, t.From)
	if err != nil {
		return nil, apperror.ErrRPC("eth_getTransactionCount", err)
	}

	gasPrice, err := c.rpcClient.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperror.ErrRPC("eth_gasPrice", err)
	}

	chainID, err := c.rpcClient.ChainID(ctx)
	if err != nil {
		return nil, apperror.ErrRPC("eth_chainId", err)
	}

	to := t.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      params.TxGas,
		To:       &to,
		Value:    new(big.Int).Set(t.Value),
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return raw, nil
}

// Submit sends signed transaction bytes and returns the transaction hash
func (c *EthereumClient) Submit(ctx context.Context, raw []byte) (string, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}

	if err := c.rpcClient.SendTransaction(ctx, tx); err != nil {
		return "", apperror.ErrRPC("eth_sendRawTransaction", err)
	}
	return tx.Hash().Hex(), nil
}
