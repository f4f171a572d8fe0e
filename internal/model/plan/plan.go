package plan

// Attachment is a staged reference to an uploaded chat screenshot, owned by
// the request that staged it and removed after the plan run consumes it.
type Attachment struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Path     string `json:"-"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// Panel is one persona's contribution to the recovery plan. Error carries a
// human-readable failure when the invocation did not return a response; a
// failed panel never suppresses the panels that follow it.
type Panel struct {
	PersonaID string `json:"personaId"`
	Name      string `json:"name"`
	Heading   string `json:"heading"`
	Content   string `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
}
