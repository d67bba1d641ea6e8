package prompts

import (
	"fmt"

	"github.com/hance08/bankd/internal/validation"
)

// PromptMoneyAmount prompts for a positive amount, validated the same way
// the transaction engine validates it.
func PromptMoneyAmount() (string, error) {
	return PromptAmount("Amount:", "e.g. 125.50", func(s string) error {
		_, err := validation.ParseAmount(s)
		return err
	})
}

// PromptReference prompts for an optional client-supplied reference number.
// Empty input lets the engine generate one.
func PromptReference() (string, error) {
	return PromptInput("Reference number (optional, press Enter to generate):", "", nil)
}

// PromptTransferAccounts prompts for source and destination account numbers
func PromptTransferAccounts() (string, string, error) {
	source, err := PromptAccountNumber("Source account number:")
	if err != nil {
		return "", "", fmt.Errorf("input cancelled: %w", err)
	}

	destination, err := PromptAccountNumber("Destination account number:")
	if err != nil {
		return "", "", fmt.Errorf("input cancelled: %w", err)
	}

	return source, destination, nil
}
