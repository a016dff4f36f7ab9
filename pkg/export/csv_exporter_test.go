package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Dataset{
		Headers: []string{"Record ID", "Student Name", "Balance Fees"},
		Rows: []map[string]string{
			{"Record ID": "r1", "Student Name": "Asha Verma", "Balance Fees": "3000.00"},
			{"Record ID": "r2", "Student Name": "Ravi, Sahu", "Balance Fees": "0.00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Record ID,Student Name,Balance Fees\nr1,Asha Verma,3000.00\nr2,\"Ravi, Sahu\",0.00\n", string(payload))
}

func TestCSVExporterRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}
