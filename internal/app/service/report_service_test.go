package service

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_BuildDeliveryDetailsWorkbook(t *testing.T) {
	r := setupRepos(t)
	workflow := NewOrderWorkflow(r.tm, r.orders, r.details)
	svc := NewReportService(r.details)
	ctx := context.Background()

	customer := createCustomer(t, r, "customer@example.com")
	person := createDeliveryPerson(t, r, "rider@example.com")
	for _, city := range []string{"Colombo", "Kandy"} {
		order := createOrder(t, r, customer.ID, city, model.PaymentStatusPaid)
		_, err := workflow.AssignDeliveryPerson(ctx, order.ID, person.ID)
		require.NoError(t, err)
		_, err = workflow.SubmitDeliveryDetails(ctx, order.ID, person.ID, validDetails())
		require.NoError(t, err)
	}

	f, err := svc.BuildDeliveryDetailsWorkbook(ctx)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(deliveryReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Order", rows[0][0])
	assert.Equal(t, person.Name, rows[1][1])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "1000", rows[3][2])
	assert.Equal(t, "25", rows[3][3])

	dir := t.TempDir()
	path, err := svc.WriteDeliveryDetailsReport(ctx, dir)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReadCatalog(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Brand", "Model", "Category", "Price", "Colors", "Sizes", "Stock", "Image_URL"},
		{"Nike", "Pegasus", "Running", "120.5", "black, white", "41,42", "7", "https://cdn.example.com/p.png"},
		{"", "Nameless", "casual", "10", "", "", "1", ""},
		{"Bata", "Comfit", "sandals", "free", "", "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	products, skipped, err := ReadCatalog(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, products, 1)
	assert.Equal(t, model.CategoryRunning, products[0].Category)
	assert.Equal(t, 120.5, products[0].Price)
	assert.Equal(t, []string{"black", "white"}, products[0].Colors)
	assert.Equal(t, 7, products[0].StockQuantity)
}

func TestReadCatalog_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	header := []interface{}{"brand", "model"}
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &header))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, _, err := ReadCatalog(&buf)
	assert.ErrorContains(t, err, "category")
}
