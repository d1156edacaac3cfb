package models

import (
	"fmt"
	"slices"

	"github.com/ensab/scolarite/internal/pkg/apperrors"
)

// EntityKind names a record family that carries a status.
type EntityKind string

const (
	KindRequest    EntityKind = "demande"
	KindPayment    EntityKind = "paiement"
	KindEnrollment EntityKind = "inscription"
	KindComplaint  EntityKind = "reclamation"
)

// Action is an administrative operation that moves a record between statuses.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPay     Action = "pay"
	ActionCancel  Action = "cancel"
	ActionConfirm Action = "confirm"
	ActionTreat   Action = "treat"
)

// Transition is one legal edge of a status machine.
type Transition struct {
	Kind   EntityKind
	Action Action
	From   []string
	To     string
}

// Permits reports whether the transition may start from status.
func (t Transition) Permits(status string) bool {
	return slices.Contains(t.From, status)
}

// transitionTable is the single source of truth for status changes. Cancelling
// a paid payment and re-confirming a cancelled enrollment are both allowed.
var transitionTable = []Transition{
	{KindRequest, ActionApprove, []string{string(RequestPending)}, string(RequestApproved)},
	{KindRequest, ActionReject, []string{string(RequestPending)}, string(RequestRejected)},

	{KindPayment, ActionPay, []string{string(PaymentUnpaid), string(PaymentInProgress)}, string(PaymentPaid)},
	{KindPayment, ActionCancel, []string{string(PaymentPaid), string(PaymentUnpaid)}, string(PaymentUnpaid)},

	{KindEnrollment, ActionConfirm, []string{string(EnrollmentRegistered), string(EnrollmentCancelled)}, string(EnrollmentConfirmed)},
	{KindEnrollment, ActionCancel, []string{string(EnrollmentRegistered), string(EnrollmentConfirmed)}, string(EnrollmentCancelled)},

	{KindComplaint, ActionTreat, []string{string(ComplaintPending)}, string(ComplaintProcessed)},
}

// FindTransition looks up the edge driven by action for kind.
func FindTransition(kind EntityKind, action Action) (Transition, bool) {
	for _, t := range transitionTable {
		if t.Kind == kind && t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// AvailableActions lists the actions legal for a record of kind in status,
// in table order.
func AvailableActions(kind EntityKind, status string) []Action {
	var actions []Action
	for _, t := range transitionTable {
		if t.Kind == kind && t.Permits(status) {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

// CanPerform reports whether action is legal for kind in status.
func CanPerform(kind EntityKind, action Action, status string) bool {
	t, ok := FindTransition(kind, action)
	return ok && t.Permits(status)
}

// Actions returns the parsed action names accepted for kind.
func Actions(kind EntityKind) []Action {
	var actions []Action
	for _, t := range transitionTable {
		if t.Kind == kind {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

func nextStatus[S ~string](kind EntityKind, action Action, current S) (S, error) {
	t, ok := FindTransition(kind, action)
	if !ok {
		return current, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("Action %q inconnue pour %s.", action, kind))
	}
	if !t.Permits(string(current)) {
		return current, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("Action %q impossible pour un(e) %s au statut %s.", action, kind, current))
	}
	return S(t.To), nil
}
