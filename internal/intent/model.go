package intent

// Action identifies what the sender wants the bot to do
type Action string

const (
	ActionConfirmar    Action = "confirmar"
	ActionCancelar     Action = "cancelar"
	ActionAtraso       Action = "atraso"
	ActionStatus       Action = "status"
	ActionSaldo        Action = "saldo"
	ActionAjuda        Action = "ajuda"
	ActionSaudacao     Action = "saudacao"
	ActionDesconhecido Action = "desconhecido"
)

// Intent is the structured result of classifying one inbound message.
// Days carries canonical weekday tokens ("seg".."sex") or the literal
// "hoje" when the action implies today and no day was mentioned.
type Intent struct {
	Action     Action   `json:"acao"`
	Days       []string `json:"dias"`
	Minutes    *int     `json:"minutos"`
	Confidence float64  `json:"confianca"`
}
