package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliofetch/heliofetch/internal/catalog"
)

func TestBuildQuery(t *testing.T) {
	q, err := buildQuery("2023-02-05T00:00:00.000", "2023-02-05T01:00:00.000", 335, "1min")
	require.NoError(t, err)

	assert.Equal(t, "2023-02-05T00:00:00.000", q.StartDate)
	assert.Equal(t, 335, q.Wavelength)
	assert.Equal(t, catalog.Cadence{Value: 1, Unit: catalog.CadenceMinute}, q.Cadence)
}

func TestBuildQuery_BadCadence(t *testing.T) {
	_, err := buildQuery("2023-02-05T00:00:00.000", "2023-02-05T01:00:00.000", 335, "1 fortnight")
	assert.Error(t, err)
}

func TestBuildQuery_BadDate(t *testing.T) {
	_, err := buildQuery("2023-02-05", "2023-02-05T01:00:00.000", 335, "1min")
	var verr *catalog.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "start_date", verr.Field)
}

func TestBuildQuery_BadWavelength(t *testing.T) {
	_, err := buildQuery("2023-02-05T00:00:00.000", "2023-02-05T01:00:00.000", 0, "1min")
	var verr *catalog.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "wavelength", verr.Field)
}
