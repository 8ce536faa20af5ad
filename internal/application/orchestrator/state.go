package orchestrator

import (
	"cmp"
	"slices"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// PaymentForm is the payment entry form. Draft keeps the last submitted
// input so a failed submission can be retried.
type PaymentForm struct {
	Open  bool                `json:"open"`
	Draft port.PaymentRequest `json:"draft"`
}

// LinkView is an open link-display view for one invoice
type LinkView struct {
	InvoiceID int64              `json:"invoice_id"`
	Link      entity.PaymentLink `json:"link"`
}

// State is a snapshot of every pending flag and the UI state the
// mutations settle into.
type State struct {
	PaymentPending    bool                   `json:"payment_pending"`
	PaymentForm       PaymentForm            `json:"payment_form"`
	SelectedInvoiceID int64                  `json:"selected_invoice_id,omitempty"`
	GenerationPending bool                   `json:"generation_pending"`
	LastGeneration    *port.GenerationResult `json:"last_generation,omitempty"`
	LinkPending       []int64                `json:"link_pending"`
	LinkViews         []LinkView             `json:"link_views"`
}

// pendingState is guarded by the orchestrator mutex
type pendingState struct {
	paymentPending    bool
	form              PaymentForm
	selected          int64
	generationPending bool
	lastGeneration    *port.GenerationResult
	linkPending       map[int64]struct{}
	linkViews         map[int64]entity.PaymentLink
}

func newPendingState() pendingState {
	return pendingState{
		linkPending: make(map[int64]struct{}),
		linkViews:   make(map[int64]entity.PaymentLink),
	}
}

func (p *pendingState) snapshot() State {
	st := State{
		PaymentPending:    p.paymentPending,
		PaymentForm:       p.form,
		SelectedInvoiceID: p.selected,
		GenerationPending: p.generationPending,
		LinkPending:       make([]int64, 0, len(p.linkPending)),
		LinkViews:         make([]LinkView, 0, len(p.linkViews)),
	}
	if p.lastGeneration != nil {
		res := *p.lastGeneration
		st.LastGeneration = &res
	}
	for id := range p.linkPending {
		st.LinkPending = append(st.LinkPending, id)
	}
	slices.Sort(st.LinkPending)
	for id, link := range p.linkViews {
		st.LinkViews = append(st.LinkViews, LinkView{InvoiceID: id, Link: link})
	}
	slices.SortFunc(st.LinkViews, func(a, b LinkView) int {
		return cmp.Compare(a.InvoiceID, b.InvoiceID)
	})
	return st
}
