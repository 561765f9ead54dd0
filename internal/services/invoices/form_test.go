package invoices

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	cases := map[string]Amount{
		`{"amount":12.5}`:    "12.5",
		`{"amount":"12.50"}`: "12.50",
		`{"amount":1e2}`:     "1e2",
		`{"amount":null}`:    "",
		`{}`:                 "",
	}
	for body, want := range cases {
		t.Run(body, func(t *testing.T) {
			var form Form
			require.NoError(t, json.Unmarshal([]byte(body), &form))
			assert.Equal(t, want, form.Amount)
		})
	}
}

func TestAmountUnmarshalJSONRejectsOtherTypes(t *testing.T) {
	for _, body := range []string{`{"amount":true}`, `{"amount":[1]}`, `{"amount":{"v":1}}`} {
		var form Form
		err := json.Unmarshal([]byte(body), &form)
		assert.ErrorIs(t, err, ErrAmountType, body)
	}
}

func TestPayloadError(t *testing.T) {
	amountErr := PayloadError(MsgCreateInvalid, json.Unmarshal([]byte(`{"amount":true}`), &Form{}))
	assert.Equal(t, map[string][]string{"amount": {"Please enter an amount greater than $0"}}, amountErr.Errors)
	assert.Equal(t, "Missing fields. Failed to create an invoice", amountErr.Message)

	statusErr := PayloadError(MsgUpdateInvalid, json.Unmarshal([]byte(`{"status":7}`), &Form{}))
	assert.Equal(t, map[string][]string{"status": {"Please select an invoice status."}}, statusErr.Errors)
	assert.Equal(t, "Missing fields. Failed to update the invoice", statusErr.Message)

	syntaxErr := PayloadError(MsgCreateInvalid, errors.New("unexpected EOF"))
	assert.Equal(t, map[string][]string{
		"customerId": {"Please select a customer."},
		"amount":     {"Please enter an amount greater than $0"},
		"status":     {"Please select an invoice status."},
	}, syntaxErr.Errors)
}

func TestValidAmountBounds(t *testing.T) {
	assert.True(t, validAmount("92233720368547758.07"))
	assert.False(t, validAmount("92233720368547758.08"))
	assert.False(t, validAmount("99999999999999999"))
	assert.False(t, validAmount("1e17"))
	assert.False(t, validAmount("1e2000000"))
	assert.True(t, validAmount("1e-2000000"))
	assert.Equal(t, int64(0), toCents(mustParse(t, "1e-2000000")))
}

func TestMustRegisterPanicsOnEmptyTag(t *testing.T) {
	v := newValidator()
	assert.Panics(t, func() { mustRegister(v, "", nil) })
}

func mustParse(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := parseAmount(raw)
	require.NoError(t, err)
	return d
}
