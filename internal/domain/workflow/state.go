package workflow

import "github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"

// State is an invoice status seen as a lifecycle state
type State = entity.InvoiceStatus

var terminalStates = map[State]bool{
	entity.StatusPaid:      true,
	entity.StatusCancelled: true,
}

// IsTerminal returns true if no trigger may move an invoice out of the state
func IsTerminal(s State) bool {
	return terminalStates[s]
}
