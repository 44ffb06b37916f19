package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogContainsAllForms(t *testing.T) {
	c := DefaultCatalog()

	expected := []string{
		"contact", "make_claim", "testimonial",
		"newsletter_subscribe", "newsletter_unsubscribe",
		"car_purchase", "car_sell",
	}
	assert.Equal(t, expected, c.IDs())

	for _, id := range expected {
		s, err := c.Lookup(id)
		require.NoError(t, err)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.RequiredFields())
	}

	_, err := c.Lookup("car_wash")
	assert.ErrorIs(t, err, ErrUnknownForm)
}

func TestRequiredFieldsKeepDeclarationOrder(t *testing.T) {
	c := DefaultCatalog()

	s, err := c.Lookup("make_claim")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"first_name", "last_name", "email", "phone", "full_address",
		"accident_date", "vehicle_registration", "insurance_company",
		"policy_number", "accident_details", "pickup_location", "dropoff_location",
	}, s.RequiredFields())
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		input   string
		want    string
		wantErr bool
	}{
		{"string ok", Rule{Type: TypeString, MinLength: 2, MaxLength: 10}, "Jane", "Jane", false},
		{"string too short", Rule{Type: TypeString, MinLength: 5}, "Jo", "", true},
		{"string too long", Rule{Type: TypeString, MaxLength: 3}, "Jonathan", "", true},
		{"string trims whitespace", Rule{Type: TypeString}, "  Jane  ", "Jane", false},
		{"email ok", Rule{Type: TypeEmail}, "jane@example.com", "jane@example.com", false},
		{"email missing domain", Rule{Type: TypeEmail}, "jane@", "", true},
		{"email no at", Rule{Type: TypeEmail}, "jane.example.com", "", true},
		{"phone ok", Rule{Type: TypePhone}, "+44 7911 123456", "+44 7911 123456", false},
		{"phone too few digits", Rule{Type: TypePhone}, "12345", "", true},
		{"phone letters rejected", Rule{Type: TypePhone}, "call me", "", true},
		{"integer ok", Rule{Type: TypeInteger, Min: 1, Max: 5, HasRange: true}, "4", "4", false},
		{"integer below min", Rule{Type: TypeInteger, Min: 1, Max: 5, HasRange: true}, "0", "", true},
		{"integer above max", Rule{Type: TypeInteger, Min: 1, Max: 5, HasRange: true}, "6", "", true},
		{"integer not numeric", Rule{Type: TypeInteger}, "four", "", true},
		{"number ok", Rule{Type: TypeNumber, Min: 0, Max: 100000, HasRange: true}, "1500.50", "1500.50", false},
		{"number not numeric", Rule{Type: TypeNumber}, "cheap", "", true},
		{"boolean yes", Rule{Type: TypeBoolean}, "Yes", "yes", false},
		{"boolean numeric", Rule{Type: TypeBoolean}, "0", "no", false},
		{"boolean garbage", Rule{Type: TypeBoolean}, "maybe", "", true},
		{"select case-insensitive", Rule{Type: TypeSelect, Options: []string{"Car Hire", "Car Rental"}}, "car hire", "Car Hire", false},
		{"select unknown option", Rule{Type: TypeSelect, Options: []string{"Car Hire"}}, "Boats", "", true},
		{"date iso", Rule{Type: TypeDate}, "2025-06-14", "2025-06-14", false},
		{"date slashes", Rule{Type: TypeDate}, "14/06/2025", "14/06/2025", false},
		{"date prose", Rule{Type: TypeDate}, "last tuesday", "", true},
		{"empty value", Rule{Type: TypeString}, "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Validate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVehicleRegistrationPattern(t *testing.T) {
	c := DefaultCatalog()
	s, err := c.Lookup("make_claim")
	require.NoError(t, err)

	got, err := s.ValidateField("vehicle_registration", "AB12CDE")
	require.NoError(t, err)
	assert.Equal(t, "AB12CDE", got)

	_, err = s.ValidateField("vehicle_registration", "ab12 cde")
	assert.Error(t, err)

	_, err = s.ValidateField("vehicle_registration", "TOOLONGREG99")
	assert.Error(t, err)
}

func TestSchemaPromptAndLabelFallbacks(t *testing.T) {
	c := DefaultCatalog()
	s, err := c.Lookup("make_claim")
	require.NoError(t, err)

	assert.Equal(t, "And your last name please?", s.Prompt("last_name"))
	// documents has no prompt text; generic phrasing applies.
	assert.Equal(t, "Could you please provide your documents?", s.Prompt("documents"))

	assert.Equal(t, "Vehicle Registration", s.Label("vehicle_registration"))
	assert.Equal(t, "Address", s.Label("full_address"))
}

func TestCatalogSummaries(t *testing.T) {
	c := DefaultCatalog()
	summary := c.Summaries()
	assert.Contains(t, summary, "- contact: Contact Inquiry - General contact form for inquiries")
	assert.Contains(t, summary, "- car_sell: Sell Vehicle Request")
}
