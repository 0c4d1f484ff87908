package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBulkBills(t *testing.T) {
	bills := []Bill{
		{
			PropertyCode: "RAS",
			VendorName:   "Ace Hardware",
			Amount:       45.678,
			GLAccount:    "6435: General Repairs",
			CashAccount:  "1170: Amex",
			Description:  "Amex Payment",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBulkBills(&buf, bills))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xef\xbb\xbf"), "output should start with a BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\xef\xbb\xbf")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Columns, records[0])

	row := records[1]
	assert.Equal(t, "RAS", row[0])
	assert.Equal(t, "Ace Hardware", row[1])
	assert.Equal(t, "45.68", row[2]) // rounded to cents
	assert.Equal(t, "6435: General Repairs", row[3])
	assert.Equal(t, "Amex Payment", row[4])
	assert.Equal(t, "1170: Amex", row[12])
	// Date and memo columns stay empty for the importer to fill.
	for i := 5; i <= 11; i++ {
		assert.Empty(t, row[i])
	}
}

func TestWriteBulkBills_EmptyBatchStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBulkBills(&buf, nil))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\xef\xbb\xbf")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Columns, records[0])
}

func TestDescriptionFor(t *testing.T) {
	assert.Equal(t, "Amex Payment", DescriptionFor("1170: Amex"))
	assert.Equal(t, "Mastercard Payment", DescriptionFor("1180: AA Mastercard"))
	assert.Equal(t, "Bank of America Payment", DescriptionFor("1190: BoA Checking"))
	assert.Equal(t, "Chase Payment", DescriptionFor("1200: Chase"))
	assert.Equal(t, "Payment", DescriptionFor(""))
	assert.Equal(t, "Payment", DescriptionFor("1160: Petty Cash"))
}
