package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuery() Query {
	return Query{
		StartDate:  "2023-02-05T00:00:00.000",
		EndDate:    "2023-02-05T01:00:00.000",
		Wavelength: 335,
		Cadence:    Cadence{Value: 1, Unit: CadenceMinute},
	}
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, validQuery().Validate())
}

func TestQueryValidate_BadDates(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Query)
		field  string
	}{
		{"missing start", func(q *Query) { q.StartDate = "" }, "start_date"},
		{"start without millis", func(q *Query) { q.StartDate = "2023-02-05T00:00:00" }, "start_date"},
		{"start date only", func(q *Query) { q.StartDate = "2023-02-05" }, "start_date"},
		{"garbage end", func(q *Query) { q.EndDate = "not-a-date" }, "end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuery()
			tc.mutate(&q)
			err := q.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestQueryValidate_BadWavelength(t *testing.T) {
	q := validQuery()
	q.Wavelength = 0
	var verr *ValidationError
	require.ErrorAs(t, q.Validate(), &verr)
	assert.Equal(t, "wavelength", verr.Field)
}

func TestQueryValidate_BadCadence(t *testing.T) {
	q := validQuery()
	q.Cadence = Cadence{Value: 2, Unit: "fortnight"}
	var verr *ValidationError
	require.ErrorAs(t, q.Validate(), &verr)
	assert.Equal(t, "cadence", verr.Field)

	q.Cadence = Cadence{Value: 0, Unit: CadenceHour}
	require.ErrorAs(t, q.Validate(), &verr)
	assert.Equal(t, "cadence", verr.Field)
}

func TestCadenceEncode(t *testing.T) {
	assert.Equal(t, "1 min", Cadence{Value: 1, Unit: CadenceMinute}.Encode())
	assert.Equal(t, "2 h", Cadence{Value: 2, Unit: CadenceHour}.Encode())
	assert.Equal(t, "1 day", Cadence{Value: 1, Unit: CadenceDay}.Encode())
}

func TestParseCadence(t *testing.T) {
	cases := []struct {
		in   string
		want Cadence
	}{
		{"1min", Cadence{1, CadenceMinute}},
		{"1 min", Cadence{1, CadenceMinute}},
		{"30m", Cadence{30, CadenceMinute}},
		{"2h", Cadence{2, CadenceHour}},
		{"12 hours", Cadence{12, CadenceHour}},
		{"1day", Cadence{1, CadenceDay}},
		{"1 d", Cadence{1, CadenceDay}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCadence(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCadence_Invalid(t *testing.T) {
	for _, in := range []string{"", "min", "1", "1 fortnight", "-1min", "h2"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseCadence(in)
			assert.Error(t, err)
		})
	}
}

func TestQueryParams(t *testing.T) {
	v := validQuery().params(300)

	assert.Equal(t, "false", v.Get("nocount"))
	assert.Equal(t, "DATE_BETWEEN|date__obs|2023-02-05T00:00:00.000|2023-02-05T01:00:00.000", v.Get("p[0]"))
	assert.Equal(t, "CADENCE|mask_cadence|1 min", v.Get("p[1]"))
	assert.Equal(t, "LISTBOXMULTIPLE|wavelnth|335", v.Get("p[2]"))
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "0", v.Get("start"))
	assert.Equal(t, "300", v.Get("limit"))
	assert.NotEmpty(t, v.Get("_dc"))
}
