package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tally/internal/core"
	"tally/internal/events"
)

// handleCreateTransaction appends one transaction to the session ledger.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	kind := core.TransactionKind(sanitizeInput(r.Form.Get("kind")))
	amountStr := sanitizeInput(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	note := sanitizeInput(r.Form.Get("note"))
	date := ParseDateParam(r.Form, "date", time.Now())

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("invalid amount").Write(w)
		return
	}

	tx := core.Transaction{
		Kind:     kind,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
		Note:     note,
	}
	if err := tx.Validate(); err != nil {
		UnprocessableEntityError("invalid record: " + err.Error()).Write(w)
		return
	}

	sess := sessionFrom(r)
	id, err := sess.Store.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction append error", "error", err, "category", tx.Category, "amount_cents", tx.Amount.Cents)
		InternalServerError("could not save record").Write(w)
		return
	}

	s.publish(r, events.NewAppendEvent(events.RecordTransaction, id, string(tx.Kind), tx.Category, tx.Amount.Cents))

	NewHTMXResponse().
		TriggerRecordCreated(id).
		TriggerFormReset().
		TriggerSuccessNotification("Recorded " + tx.Category + " " + formatEuros(tx.Signed().Cents)).
		BodyHTML(`<div class="success">Saved #` + strconv.FormatInt(id, 10) + `</div>`).
		Write(w)
}

// handleCreateFixedCost appends one recurring monthly entry.
func (s *Server) handleCreateFixedCost(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	direction := core.Direction(sanitizeInput(r.Form.Get("direction")))
	amountStr := sanitizeInput(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	startDate := ParseDateParam(r.Form, "start_date", time.Now())

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("invalid amount").Write(w)
		return
	}

	fc := core.FixedCost{
		Direction: direction,
		Amount:    core.Money{Cents: cents},
		Category:  category,
		StartDate: startDate,
		Active:    true,
	}
	if err := fc.Validate(); err != nil {
		UnprocessableEntityError("invalid record: " + err.Error()).Write(w)
		return
	}

	sess := sessionFrom(r)
	id, err := sess.Store.AppendFixedCost(r.Context(), fc)
	if err != nil {
		slog.ErrorContext(r.Context(), "Fixed cost append error", "error", err, "category", fc.Category, "amount_cents", fc.Amount.Cents)
		InternalServerError("could not save record").Write(w)
		return
	}

	s.publish(r, events.NewAppendEvent(events.RecordFixedCost, id, string(fc.Direction), fc.Category, fc.Amount.Cents))

	NewHTMXResponse().
		TriggerRecordCreated(id).
		TriggerFormReset().
		TriggerSuccessNotification("Fixed cost " + fc.Category + " " + formatEuros(fc.Signed().Cents) + "/month").
		BodyHTML(`<div class="success">Saved #` + strconv.FormatInt(id, 10) + `</div>`).
		Write(w)
}

// handleDeactivateFixedCost flips a fixed cost to inactive. The record
// stays in the ledger so past months remain explainable.
func (s *Server) handleDeactivateFixedCost(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, err := strconv.ParseInt(sanitizeInput(r.Form.Get("id")), 10, 64)
	if err != nil {
		UnprocessableEntityError("invalid id").Write(w)
		return
	}

	sess := sessionFrom(r)
	if err := sess.Store.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("no active fixed cost with that id").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Fixed cost deactivate error", "error", err, "record_id", id)
		InternalServerError("could not deactivate record").Write(w)
		return
	}

	s.publish(r, events.NewDeactivateEvent(id))

	NewHTMXResponse().
		TriggerFixedCostDeactivated(id).
		BodyHTML(`<div class="success">Deactivated #` + strconv.FormatInt(id, 10) + `</div>`).
		Write(w)
}

// publish forwards a record event to the broker, if one is configured.
func (s *Server) publish(r *http.Request, ev *events.RecordEvent) {
	if err := s.publisher.PublishRecordEvent(r.Context(), ev); err != nil {
		slog.WarnContext(r.Context(), "Record event publish failed", "error", err, "action", ev.Action)
	}
}
