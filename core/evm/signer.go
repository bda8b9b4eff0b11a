package evm

import (
	"crypto/ecdsa"
	"math/big"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
)

var _ chain.Wallet = (*KeySigner)(nil)

// KeySigner signs transactions with a local secp256k1 private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner creates a signer from a hex-encoded private key (with or without 0x prefix).
func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(errs.InvalidArgument, "invalid private key")
	}
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// LoadKeySigner reads a hex-encoded private key file, as written by `generate-keypair`.
func LoadKeySigner(path string) (*KeySigner, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read private key file %q", path)
	}
	signer, err := NewKeySigner(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "private key file %q", path)
	}
	return signer, nil
}

func (s *KeySigner) Address() common.Address {
	return s.address
}

// Account implements chain.Wallet. A nil signer is a disconnected wallet.
func (s *KeySigner) Account() (common.Address, bool) {
	if s == nil {
		return common.Address{}, false
	}
	return s.address, true
}

func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "can't sign transaction")
	}
	return signed, nil
}
