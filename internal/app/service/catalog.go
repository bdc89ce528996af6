package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// catalogColumns is the expected header row of a catalog sheet.
var catalogColumns = []string{"brand", "model", "category", "price", "colors", "sizes", "stock", "image_url"}

// ReadCatalog parses the first sheet of an XLSX catalog. Rows missing a brand,
// model or valid price are skipped and counted.
func ReadCatalog(r io.Reader) ([]model.Product, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, errors.Wrap(err, "open catalog")
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in catalog")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read rows")
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in catalog")
	}

	index, err := catalogHeaderIndex(rows[0])
	if err != nil {
		return nil, 0, err
	}

	cell := func(row []string, name string) string {
		i := index[name]
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var (
		products []model.Product
		skipped  int
	)
	for i, row := range rows[1:] {
		brand := cell(row, "brand")
		modelName := cell(row, "model")
		price, err := strconv.ParseFloat(cell(row, "price"), 64)
		if brand == "" || modelName == "" || err != nil || price <= 0 {
			skipped++
			logger.Debug("Skipping catalog row", map[string]interface{}{
				"row": i + 2,
			})
			continue
		}

		stock, _ := strconv.Atoi(cell(row, "stock"))
		products = append(products, model.Product{
			Brand:         brand,
			Model:         modelName,
			Category:      model.ProductCategory(strings.ToLower(cell(row, "category"))),
			Price:         price,
			Colors:        splitList(cell(row, "colors")),
			Sizes:         splitList(cell(row, "sizes")),
			StockQuantity: stock,
			ImageURL:      cell(row, "image_url"),
		})
	}

	return products, skipped, nil
}

func catalogHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range catalogColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("catalog is missing column %q", col)
		}
	}
	return index, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
