package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/google/uuid"
)

// Mailbox is where contact messages go. From is the relay-owned sender address.
type Mailbox struct {
	From string
	To   string
}

// contactEmailTemplate is the HTML template for contact form emails
const contactEmailTemplate = `<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; padding: 40px 20px; background-color: #ffffff;">
    <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border: 1px solid #000000;">
        <div style="padding: 30px; border-bottom: 2px solid #000000;">
            <h2 style="color: #000000; margin: 0; font-size: 24px; font-weight: 600;">New Contact</h2>
        </div>
        <div style="padding: 30px;">
            <table style="width: 100%; border-collapse: collapse;">
                {{- range .Rows}}
                <tr>
                    <td style="padding: 12px 0; border-bottom: 1px solid #e0e0e0;">
                        <strong style="color: #000000; font-size: 14px;">{{.Label}}</strong>
                    </td>
                    <td style="padding: 12px 0; border-bottom: 1px solid #e0e0e0; text-align: right;">
                        <span style="color: #333333; font-size: 14px;">{{.Value}}</span>
                    </td>
                </tr>
                {{- end}}
            </table>
            <div style="margin-top: 30px; padding: 20px; background: #f5f5f5; border-left: 3px solid #000000;">
                <p style="margin: 0 0 10px 0; color: #000000; font-weight: 600; font-size: 14px;">Message</p>
                <p style="margin: 0; color: #333333; font-size: 14px; line-height: 1.6; white-space: pre-wrap;">{{.Data.Message}}</p>
            </div>
        </div>
        <div style="padding: 20px 30px; background: #000000; text-align: center;">
            <p style="margin: 0; color: #ffffff; font-size: 12px;">Portfolio Contact Form</p>
        </div>
    </div>
</div>`

const contactTextTemplate = `New Contact

Name:    {{.SenderName}}
Email:   {{.SenderEmail}}
Subject: {{.Subject}}

{{.Message}}

--
Portfolio Contact Form
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("contact").Parse(contactEmailTemplate))
	textTmpl = texttemplate.Must(texttemplate.New("contact").Parse(contactTextTemplate))
)

type row struct {
	Label string
	Value string
}

// ComposeContact renders a contact submission into a Message addressed to box.
// The visitor is only ever the Reply-To, never the sender.
func ComposeContact(data ContactEmailData, box Mailbox) (Message, error) {
	var html bytes.Buffer
	err := htmlTmpl.Execute(&html, struct {
		Rows []row
		Data ContactEmailData
	}{
		Rows: []row{
			{"Name", data.SenderName},
			{"Email", data.SenderEmail},
			{"Subject", data.Subject},
		},
		Data: data,
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	var text bytes.Buffer
	if err := textTmpl.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("failed to execute text template: %w", err)
	}

	return Message{
		FromName:  headerSafe(data.SenderName),
		From:      box.From,
		To:        box.To,
		ReplyTo:   headerSafe(data.SenderEmail),
		Subject:   headerSafe("Portfolio Contact: " + data.Subject),
		HTML:      html.String(),
		Text:      text.String(),
		MessageID: uuid.NewString(),
	}, nil
}
