package profile_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/profile"
	"github.com/corinapavel/atelier/internal/records"
	"github.com/stretchr/testify/assert"
)

func newReconciler(store domain.RecordStore) *profile.Reconciler {
	return profile.NewReconciler(store, slog.New(slog.DiscardHandler))
}

func TestCheckoutDefaults_AddressRecordOnly(t *testing.T) {
	store := records.NewMemoryStore()
	store.Seed(domain.CollectionAddresses, "u1", domain.Record{
		"full_name":   "Ioana Marinescu",
		"phone":       "+40 721 000 111",
		"line1":       "Str. Plopilor 12",
		"city":        "Cluj-Napoca",
		"county":      "Cluj",
		"postal_code": "400383",
		"country":     "RO",
	})

	p := newReconciler(store).CheckoutDefaults(context.Background(), "u1", "ioana@example.com", "")

	assert.Equal(t, "ioana@example.com", p.Email)
	assert.Equal(t, "Ioana Marinescu", p.FullName)
	assert.Equal(t, "+40 721 000 111", p.Phone)
	assert.Equal(t, "Str. Plopilor 12", p.Address.Line1)
	assert.Equal(t, "Cluj-Napoca", p.Address.City)
	assert.Empty(t, p.Payment.CardholderName, "no payment record contributes nothing")
	assert.Empty(t, p.Payment.Expiry)
}

func TestCheckoutDefaults_AddressOverridesPersonalInfo(t *testing.T) {
	store := records.NewMemoryStore()
	store.Seed(domain.CollectionUsers, "u1", domain.Record{
		"first_name": "Ioana",
		"last_name":  "Pop",
		"phone":      "+40 700 000 000",
	})
	store.Seed(domain.CollectionAddresses, "u1", domain.Record{
		"full_name": "Ioana Marinescu",
		"line1":     "Str. Plopilor 12",
	})

	p := newReconciler(store).CheckoutDefaults(context.Background(), "u1", "x@example.com", "")

	assert.Equal(t, "Ioana Marinescu", p.FullName, "address record is more authoritative")
	assert.Equal(t, "+40 700 000 000", p.Phone, "address record without phone keeps earlier value")
}

func TestMergePersonalInfo_FieldNamingSchemes(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.Record
		want string
	}{
		{"snake_case scheme", domain.Record{"first_name": "Radu", "last_name": "Ionescu"}, "Radu Ionescu"},
		{"camelCase scheme", domain.Record{"firstName": "Radu", "lastName": "Ionescu"}, "Radu Ionescu"},
		{"snake_case wins when both present", domain.Record{"first_name": "Ana", "last_name": "Blandiana", "firstName": "X", "lastName": "Y"}, "Ana Blandiana"},
		{"first name only", domain.Record{"first_name": "Radu"}, "Radu"},
		{"last name only", domain.Record{"lastName": "Ionescu"}, "Ionescu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p domain.ReconciledProfile
			profile.MergePersonalInfo(tt.rec, &p)
			assert.Equal(t, tt.want, p.FullName)
		})
	}
}

func TestMergePayment_NeverCarriesCardNumber(t *testing.T) {
	var p domain.ReconciledProfile
	profile.MergePayment(domain.Record{
		"cardholder_name": "IOANA MARINESCU",
		"expiry":          "11/27",
		"card_number":     "4111111111111111", // must be ignored even if present
	}, &p)

	assert.Equal(t, "IOANA MARINESCU", p.Payment.CardholderName)
	assert.Equal(t, "11/27", p.Payment.Expiry)
}

func TestCheckoutDefaults_FallbackDisplayName(t *testing.T) {
	p := newReconciler(records.NewMemoryStore()).
		CheckoutDefaults(context.Background(), "u1", "x@example.com", "Ioana M.")

	assert.Equal(t, "Ioana M.", p.FullName)
}

// erroringStore fails every fetch with a transient error.
type erroringStore struct {
	records.MemoryStore
}

func (s *erroringStore) Fetch(ctx context.Context, collection, key string) (domain.Record, error) {
	return nil, domain.Unavailable(errors.New("connection refused"), "records.fetch", "record store unavailable")
}

func TestCheckoutDefaults_UnreadableSourcesDegradeGracefully(t *testing.T) {
	store := &erroringStore{}

	p := newReconciler(store).CheckoutDefaults(context.Background(), "u1", "x@example.com", "Fallback Name")

	assert.Equal(t, "x@example.com", p.Email)
	assert.Equal(t, "Fallback Name", p.FullName)
	assert.Empty(t, p.Address.Line1)
}
