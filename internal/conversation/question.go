package conversation

import (
	"fmt"
	"strings"
)

// NextQuestion renders the prompt for the first missing required field,
// with progress-aware wording. Pure function of the session; always
// returns non-empty text.
func NextQuestion(session FormSession) (field, text string) {
	missing := session.MissingRequired()
	if len(missing) == 0 {
		return "", "Thank you! I have all the information I need."
	}

	field = missing[0]
	question := session.Schema.Prompt(field)

	collected := session.CompletedCount()
	total := len(session.Schema.RequiredFields())

	switch {
	case collected == 0:
		text = fmt.Sprintf("I'd be happy to help you with %s. %s", session.Schema.Title, question)
	case len(missing) == 1:
		text = fmt.Sprintf("Almost there! %s (%d of %d completed, just 1 more field needed)", question, collected, total)
	default:
		text = fmt.Sprintf("Great! %s (%d of %d completed)", question, collected, total)
	}
	return field, text
}

// ConfirmationSummary renders the collected data for user sign-off. The
// session stays in confirming until the external submission hand-off;
// the summary itself never advances the state.
func ConfirmationSummary(session FormSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perfect! Let me confirm the information you've provided for your %s:\n\n", session.Schema.Title)

	// Schema declaration order keeps the summary deterministic.
	for _, f := range session.Schema.Fields {
		value, ok := session.Collected[f.Name]
		if !ok || value == "" {
			continue
		}
		fmt.Fprintf(&b, "• **%s**: %s\n", session.Schema.Label(f.Name), value)
	}

	b.WriteString("\nDoes this look correct? Please reply 'yes' to submit or 'no' to make changes.")
	return b.String()
}
