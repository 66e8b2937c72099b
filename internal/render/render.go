// Package render substitutes placeholder tokens in message subjects and
// bodies. Rendering is pure and total: unknown tokens are left verbatim
// and the same function is applied to both fields.
package render

import "strings"

const (
	// RecipientToken is replaced with the recipient's display name.
	RecipientToken = "{{name}}"
	// SenderToken is replaced with the configured sender name.
	SenderToken = "{{sender}}"
)

func Render(template, recipientName, senderName string) string {
	out := strings.ReplaceAll(template, RecipientToken, recipientName)
	out = strings.ReplaceAll(out, SenderToken, senderName)

	return out
}
