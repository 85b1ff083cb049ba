package email

// Provider defines the interface for sending email.
type Provider interface {
	// Send sends a single email message.
	Send(email *Email) error

	// SendWithTemplate renders the named template into the HTML body
	// and sends the message.
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// Validate checks the provider configuration.
	Validate() error

	// Close closes the connection to the provider.
	Close() error
}

// TemplateRenderer defines the interface for rendering email templates.
type TemplateRenderer interface {
	// Render renders a template with data.
	Render(templateName string, data TemplateData) (string, error)

	// AddTemplate adds a template to the renderer.
	AddTemplate(name string, template string) error
}
