package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// RegistrationEmail is the payload of the "registration confirmed" mail.
type RegistrationEmail struct {
	To                 string `json:"to"`
	StudentName        string `json:"studentName"`
	EventName          string `json:"eventName"`
	TransactionID      string `json:"transactionId"`
	RegistrationStatus string `json:"registrationStatus"`
}

// Notifier delivers registration emails. Callers treat delivery as best
// effort; a returned error does not undo the registration state.
type Notifier interface {
	SendRegistrationEmail(ctx context.Context, msg RegistrationEmail) error
}

const subject = "Frolic Event Registration Successful"

func (m RegistrationEmail) textBody() string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour registration for %s is %s.\nTransaction ID: %s\n\nThanks,\nFrolic Team",
		m.StudentName, m.EventName, m.RegistrationStatus, m.TransactionID,
	)
}

func (m RegistrationEmail) htmlBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi <strong>%s</strong>,</p>\r\n", html.EscapeString(m.StudentName))
	fmt.Fprintf(&b, "<p>Your registration for <strong>%s</strong> is <strong>%s</strong>.</p>\r\n",
		html.EscapeString(m.EventName), html.EscapeString(m.RegistrationStatus))
	fmt.Fprintf(&b, "<p>Transaction ID: <code>%s</code></p>\r\n", html.EscapeString(m.TransactionID))
	b.WriteString("<p>Thanks,<br/>Frolic Team</p>")
	return b.String()
}
