package workflow

import (
	"strings"

	"solarfield_backend/platform/apperr"
)

// PaymentMethods enumerates the accepted settlement methods for completed jobs.
var PaymentMethods = []string{"Bank Transfer", "UPI", "Cash", "Cheque", "Card"}

// CompletionDetails carries the payment settlement recorded when a job is
// moved to Completed. Amount defaults to the job's estimated cost and
// DiscountAmount defaults to zero; both are filled by the job service before
// persistence, so the validator only checks the caller-supplied fields.
type CompletionDetails struct {
	StatusReason   string
	PaymentMethod  string
	TransactionID  string
	Amount         float64
	DiscountAmount float64
}

// TransitionRequest is the tagged union validated before any status change.
// Kind selects the entity-specific allowed-state subset; Completion is only
// consulted for job transitions targeting Completed.
type TransitionRequest struct {
	Kind       EntityKind
	Current    Status
	Target     Status
	Comment    string
	Completion *CompletionDetails
}

// ValidateTransition enforces the shared transition rules. Field problems are
// collected into one per-field error map so a caller can surface every
// offending field at once; stale-state problems (the graph forbids the move)
// surface as a conflict instead.
func ValidateTransition(req TransitionRequest) error {
	fields := apperr.FieldErrors{}

	if !IsActionTarget(req.Target) {
		fields["new_status"] = "status must be one of In Progress, On Hold, Completed or Cancelled"
	}
	if strings.TrimSpace(req.Comment) == "" {
		fields["comments"] = "comment is required"
	}

	if req.Kind == KindJob && req.Target == StatusCompleted {
		validateCompletion(req.Completion, fields)
	}

	if len(fields) > 0 {
		return apperr.ValidationFields("validation failed", fields)
	}

	if IsTerminal(req.Kind, req.Current) {
		return apperr.Conflict("no further action is possible from status " + string(req.Current))
	}
	if !CanTransition(req.Kind, req.Current, req.Target) {
		return apperr.Conflict("cannot move from " + string(req.Current) + " to " + string(req.Target))
	}

	return nil
}

func validateCompletion(details *CompletionDetails, fields apperr.FieldErrors) {
	if details == nil {
		fields["status_reason"] = "status reason is required to complete a job"
		fields["payment_method"] = "payment method is required to complete a job"
		fields["transaction_id"] = "transaction id is required to complete a job"
		return
	}

	if strings.TrimSpace(details.StatusReason) == "" {
		fields["status_reason"] = "status reason is required to complete a job"
	}
	if strings.TrimSpace(details.TransactionID) == "" {
		fields["transaction_id"] = "transaction id is required to complete a job"
	}
	if !isPaymentMethod(details.PaymentMethod) {
		fields["payment_method"] = "payment method must be one of " + strings.Join(PaymentMethods, ", ")
	}
	if details.Amount < 0 {
		fields["amount"] = "amount cannot be negative"
	}
	if details.DiscountAmount < 0 {
		fields["discount_amount"] = "discount cannot be negative"
	}
}

func isPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
