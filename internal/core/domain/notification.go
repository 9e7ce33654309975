package domain

import "time"

const DefaultNotificationTTL = 3 * time.Second

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

type Notification struct {
	Open     bool
	Message  string
	Severity Severity
}

// User-facing notification messages, pt-BR like the rest of the storefront.
const (
	MsgProductAdded       = "Peça adicionada com sucesso!"
	MsgProductUpdated     = "Peça atualizada com sucesso!"
	MsgProductRemoved     = "Peça removida com sucesso!"
	MsgContactUpdated     = "Número do WhatsApp atualizado com sucesso!"
	MsgCredentialsUpdated = "Credenciais de administrador atualizadas!"
)
