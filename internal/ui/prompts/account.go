package prompts

import (
	"fmt"
	"strings"

	"github.com/hance08/bankd/internal/store"
)

// PromptAccountType prompts for account type selection
func PromptAccountType() (string, error) {
	options := []string{
		store.TypeChecking + " - everyday spending",
		store.TypeSavings + " - interest bearing",
	}

	selected, err := PromptSelect("Account Type:", options, options[0])
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}

	return strings.Split(selected, " ")[0], nil
}

// PromptCurrency prompts for currency selection with common options
func PromptCurrency(defaultCurrency string, customValidator func(string) error) (string, error) {
	commonCurrencies := []string{
		"USD - US Dollar",
		"EUR - Euro",
		"GBP - British Pound",
		"JPY - Japanese Yen",
		"CNY - Chinese Yuan",
		"TWD - Taiwan Dollar",
		"HKD - Hong Kong Dollar",
		"SGD - Singapore Dollar",
		"Other (Custom)",
	}

	message := fmt.Sprintf("Currency (default: %s):", defaultCurrency)

	preselected := commonCurrencies[0]
	for _, o := range commonCurrencies {
		if strings.HasPrefix(o, defaultCurrency+" ") {
			preselected = o
			break
		}
	}

	selected, err := PromptSelect(message, commonCurrencies, preselected)
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}

	if selected == "Other (Custom)" {
		customCurrency, err := PromptInput("Enter currency code:", "", customValidator)
		if err != nil {
			return "", fmt.Errorf("input cancelled: %w", err)
		}
		return strings.ToUpper(strings.TrimSpace(customCurrency)), nil
	}

	return strings.Split(selected, " ")[0], nil
}

// PromptUserID prompts for the owning user's numeric ID
func PromptUserID(validator func(string) error) (string, error) {
	return PromptInput("Owner user ID:", "", validator)
}

// PromptAccountNumber prompts for a 12-digit account number
func PromptAccountNumber(message string) (string, error) {
	return PromptInput(message, "", func(s string) error {
		s = strings.TrimSpace(s)
		if len(s) != 12 {
			return fmt.Errorf("account number must be 12 digits")
		}
		for _, c := range s {
			if c < '0' || c > '9' {
				return fmt.Errorf("account number must contain only digits")
			}
		}
		return nil
	})
}
