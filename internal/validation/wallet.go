package validation

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	validation "github.com/jellydator/validation"
)

// signatureLength is the size of an r || s || v secp256k1 signature.
const signatureLength = 65

// IsWalletAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsWalletAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// WalletAddress validates a 0x-prefixed 20-byte hex address.
var WalletAddress = validation.NewStringRuleWithError(
	IsWalletAddress,
	validation.NewError("validation_wallet_address", "must be a valid wallet address"),
)

// WalletSignature validates a 0x-prefixed 65-byte hex signature.
var WalletSignature = validation.NewStringRuleWithError(
	func(s string) bool {
		b, err := hexutil.Decode(s)
		return err == nil && len(b) == signatureLength
	},
	validation.NewError("validation_wallet_signature", "must be a 65-byte hex signature"),
)
