package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn es un mensaje etiquetado por rol dentro de una sesion. Cada fila de
// messages (id, sessionId, role, content, createdAt) se expone como Turn.
type Turn struct {
	Role    string `json:"role" db:"role"`
	Content string `json:"content" db:"content"`
}
