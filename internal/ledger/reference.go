package ledger

import (
	"math/rand/v2"

	"github.com/hance08/bankd/internal/store"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const referenceRandLen = 12

// GenerateReference builds a reference number with a type prefix and twelve
// random uppercase alphanumerics, e.g. DEP4K7Q2M9X1BZ.
func GenerateReference(txType string) string {
	prefix := "TXN"
	switch txType {
	case store.TxDeposit:
		prefix = "DEP"
	case store.TxWithdrawal:
		prefix = "WTH"
	case store.TxTransfer:
		prefix = "TRF"
	case store.TxReversal:
		prefix = "REV"
	}

	buf := make([]byte, len(prefix)+referenceRandLen)
	copy(buf, prefix)
	for i := len(prefix); i < len(buf); i++ {
		buf[i] = referenceCharset[rand.IntN(len(referenceCharset))]
	}
	return string(buf)
}
