// Package profile assembles checkout default values by merging the user's
// independently-owned records. The merge order encodes precedence: the
// address record wins over the personal-info record for name and phone
// because it is the record most recently edited during address management.
package profile

import (
	"context"
	"log/slog"

	"github.com/corinapavel/atelier/internal/domain"
)

// Reconciler merges up to three source records into one checkout-ready
// profile. It only reads; a missing or unreadable record contributes
// nothing and never aborts reconciliation.
type Reconciler struct {
	records domain.RecordStore
	logger  *slog.Logger
}

// NewReconciler creates a reconciler over the record store.
func NewReconciler(records domain.RecordStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{records: records, logger: logger}
}

// mergeStep is one stage of the reconciliation pipeline. Steps run in
// order; later steps override earlier ones field-by-field.
type mergeStep struct {
	name       string
	collection string
	apply      func(rec domain.Record, p *domain.ReconciledProfile)
}

var pipeline = []mergeStep{
	{"personal-info", domain.CollectionUsers, MergePersonalInfo},
	{"address", domain.CollectionAddresses, MergeAddress},
	{"payment-on-file", domain.CollectionPaymentMethods, MergePayment},
}

// CheckoutDefaults assembles the default-value set for a checkout form.
// accountEmail seeds the profile; authDisplayName is the authentication
// provider's display name, used only when no record supplied a name.
func (r *Reconciler) CheckoutDefaults(ctx context.Context, userID, accountEmail, authDisplayName string) domain.ReconciledProfile {
	p := domain.ReconciledProfile{Email: accountEmail}

	for _, step := range pipeline {
		rec, err := r.records.Fetch(ctx, step.collection, userID)
		if err != nil {
			// Degraded prefill, never a checkout blocker.
			if !domain.IsCode(err, domain.ENOTFOUND) {
				r.logger.Warn("profile source unreadable, skipping",
					"source", step.name, "user_id", userID, "error", err)
			}
			continue
		}
		step.apply(rec, &p)
	}

	if p.FullName == "" {
		p.FullName = authDisplayName
	}

	return p
}

// MergePersonalInfo maps the personal-info record into the profile. Two
// historical field-naming schemes exist for the name pair; both are
// accepted, snake_case first.
func MergePersonalInfo(rec domain.Record, p *domain.ReconciledProfile) {
	first := rec.GetString("first_name")
	last := rec.GetString("last_name")
	if first == "" && last == "" {
		first = rec.GetString("firstName")
		last = rec.GetString("lastName")
	}

	if name := joinName(first, last); name != "" {
		p.FullName = name
	}
	if phone := rec.GetString("phone"); phone != "" {
		p.Phone = phone
	}
}

// MergeAddress maps the address record into the profile, overwriting name
// and phone when present, and supplies the shipping address.
func MergeAddress(rec domain.Record, p *domain.ReconciledProfile) {
	if name := rec.GetString("full_name"); name != "" {
		p.FullName = name
	}
	if phone := rec.GetString("phone"); phone != "" {
		p.Phone = phone
	}

	p.Address = domain.Address{
		Line1:      rec.GetString("line1"),
		Line2:      rec.GetString("line2"),
		City:       rec.GetString("city"),
		County:     rec.GetString("county"),
		PostalCode: rec.GetString("postal_code"),
		Country:    rec.GetString("country"),
	}
}

// MergePayment maps the payment-on-file record into the profile's payment
// section: cardholder name and expiry only. Stored payment records never
// carry a raw card number, and one is never read even if present.
func MergePayment(rec domain.Record, p *domain.ReconciledProfile) {
	p.Payment = domain.PaymentOnFile{
		CardholderName: rec.GetString("cardholder_name"),
		Expiry:         rec.GetString("expiry"),
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
