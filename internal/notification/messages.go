package notification

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Messages renders the operator-facing texts in Brazilian Portuguese
type Messages struct {
	printer *message.Printer
}

// NewMessages creates the pt-BR catalog
func NewMessages() *Messages {
	return &Messages{printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// Money formats cents as "R$ 1.234,56"
func (m *Messages) Money(cents int64) string {
	return m.printer.Sprintf("R$ %.2f", float64(cents)/100)
}

func (m *Messages) PaymentRegistered(amountCents int64) string {
	return m.printer.Sprintf("Pagamento de %s registrado com sucesso.", m.Money(amountCents))
}

func (m *Messages) PaymentFailed() string {
	return "Erro ao registrar pagamento."
}

func (m *Messages) InvoicesGenerated(count int, competency string) string {
	if count == 1 {
		return m.printer.Sprintf("1 nova fatura gerada para %s.", competency)
	}
	return m.printer.Sprintf("%d novas faturas geradas para %s.", count, competency)
}

func (m *Messages) NoInvoicesNeeded() string {
	return "Nenhuma fatura nova precisava ser gerada."
}

func (m *Messages) GenerationFailed() string {
	return "Erro ao gerar faturas."
}

func (m *Messages) PaymentLinkGenerated() string {
	return "Link de pagamento gerado com sucesso."
}

// PaymentLinkFailed carries the underlying failure reason
func (m *Messages) PaymentLinkFailed(reason string) string {
	return m.printer.Sprintf("Erro ao gerar link de pagamento: %s", reason)
}
