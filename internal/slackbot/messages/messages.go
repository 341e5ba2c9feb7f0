package messages

import (
	"fmt"

	"github.com/samber/lo"
)

// General
const (
	Processing   = "Processing your request, please wait..."
	GenericError = "An error occurred. Please ensure that the phone number you entered is a valid Wecom number"
	EmptyNumber  = "Please provide a phone number, e.g. `/wecom 0521234567`"
)

// Buttons and modal controls
const (
	ButtonExtend   = "Extend"
	ButtonActivate = "Activate"
	ModalClose     = "Do Nothing"
)

// Action outcomes
const (
	ProcessingExtension  = "Processing extension request..."
	ProcessingActivation = "Processing activation request..."
	ExtendSuccess        = "Subscription extended successfully ✅ The changes will be reflected shortly."
	ActivateSuccess      = "Subscription activated successfully ✅ The changes will be reflected shortly."
	ActionFailed         = "❌ The request could not be completed. Please try again later."
)

// FormatStatus renders the snapshot status line.
func FormatStatus(isActive bool) string {
	return lo.Ternary(isActive, "Active ✅", "Inactive ❌")
}

// FormatUsage renders the usage summary shown under a subscription.
func FormatUsage(internetUsedMB, voiceUsed, messagesUsed float64) string {
	return fmt.Sprintf("%.0f MB data\n%.0f calls\n%.0f messages", internetUsedMB, voiceUsed, messagesUsed)
}

// FormatModalTitle renders the confirmation modal title. Slack caps
// modal titles at 24 characters, which fits "Extend 0521234567?".
func FormatModalTitle(verb, number string) string {
	return fmt.Sprintf("%s %s?", verb, number)
}

// FormatCost renders a cost with its currency symbol.
func FormatCost(currency string, cost float64) string {
	return fmt.Sprintf("%s %.0f", currency, cost)
}
