package email

// Attachment represents an email attachment.
type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

// Email represents an outgoing email message.
type Email struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

// TemplateData holds values passed to email templates.
type TemplateData map[string]interface{}
