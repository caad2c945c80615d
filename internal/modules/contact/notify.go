package contact

import (
	"bytes"
	"fmt"
	"html/template"

	"yantrashilpa.com/web/internal/mailer"
)

var notificationHTML = template.Must(template.New("contact").Parse(`<html>
  <body style="font-family: sans-serif;">
    <h2>New contact message</h2>
    <p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p style="white-space: pre-wrap;">{{.Body}}</p>
    <p style="color:#6b7280;">Received {{.CreatedAt.Format "02 Jan 2006 15:04 MST"}}</p>
  </body>
</html>
`))

// notification builds the inbox email for m. Replies go straight to the sender.
func notification(m Message, from, fromName, inbox string) (mailer.Email, error) {
	var html bytes.Buffer
	if err := notificationHTML.Execute(&html, m); err != nil {
		return mailer.Email{}, err
	}
	text := fmt.Sprintf("New contact message\n\nFrom: %s <%s>\nSubject: %s\n\n%s\n",
		m.Name, m.Email, m.Subject, m.Body)

	return mailer.Email{
		From:     from,
		FromName: fromName,
		To:       []string{inbox},
		ReplyTo:  m.Email,
		Subject:  "[Contact] " + m.Subject,
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}
