package service

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
)

const signatureLength = 65

type walletVerifier struct{}

// NewSignatureVerifier creates a SignatureVerifier for Ethereum personal_sign messages.
func NewSignatureVerifier() SignatureVerifier {
	return &walletVerifier{}
}

func (v *walletVerifier) Verify(message, signature, address string) error {
	if !common.IsHexAddress(address) {
		return authDomain.ErrInvalidSignature
	}

	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != signatureLength {
		return authDomain.ErrInvalidSignature
	}

	// Wallets emit v as 27/28; recovery expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return authDomain.ErrInvalidSignature
	}

	signer := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(signer.Hex(), common.HexToAddress(address).Hex()) {
		return authDomain.ErrInvalidSignature
	}
	return nil
}
