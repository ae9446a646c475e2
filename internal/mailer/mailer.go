// Package mailer sends templated email over SMTP. Templates live in the
// embedded templates directory; each one defines "subject", "plainBody" and
// "htmlBody" blocks. Sends are fire-and-forget: no retries, no delivery
// confirmation.
package mailer

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"text/template"
	"time"

	mail "github.com/go-mail/mail/v2"
)

//go:embed templates
var templateFS embed.FS

// Mailer wraps an SMTP dialer and the sender address used on outgoing mail.
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

// New returns a Mailer that connects to the given SMTP host with a 5-second
// dial timeout.
func New(host string, port int, username, password, sender string) Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return Mailer{
		dialer: dialer,
		sender: sender,
	}
}

// Send renders templateFile with data and sends the result to recipient.
// It blocks until the SMTP transaction finishes or fails.
func (m Mailer) Send(recipient, templateFile string, data any) error {
	subject, plainBody, htmlBody, err := render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// render executes the subject and plainBody blocks as text templates and the
// htmlBody block as an HTML template, so user-derived values (reader names,
// book titles) are escaped in the HTML alternative.
func render(templateFile string, data any) (subject, plainBody, htmlBody string, err error) {
	textTmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", "", err
	}

	var subjectBuf bytes.Buffer
	if err = textTmpl.ExecuteTemplate(&subjectBuf, "subject", data); err != nil {
		return "", "", "", err
	}

	var plainBuf bytes.Buffer
	if err = textTmpl.ExecuteTemplate(&plainBuf, "plainBody", data); err != nil {
		return "", "", "", err
	}

	htmlTmpl, err := htmltemplate.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", "", err
	}

	var htmlBuf bytes.Buffer
	if err = htmlTmpl.ExecuteTemplate(&htmlBuf, "htmlBody", data); err != nil {
		return "", "", "", err
	}

	return subjectBuf.String(), plainBuf.String(), htmlBuf.String(), nil
}
