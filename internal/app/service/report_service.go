package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const deliveryReportSheet = "Delivery Details"

var deliveryReportHeader = []interface{}{
	"Order", "Delivery Person", "Delivery Cost", "Mileage", "Petrol Cost", "Time Spent", "Notes", "Submitted At",
}

type ReportService interface {
	// BuildDeliveryDetailsWorkbook returns an open workbook; callers close it.
	BuildDeliveryDetailsWorkbook(ctx context.Context) (*excelize.File, error)
	// WriteDeliveryDetailsReport saves the workbook under dir and returns its path.
	WriteDeliveryDetailsReport(ctx context.Context, dir string) (string, error)
}

type reportService struct {
	detailRepo repository.DeliveryDetailRepository
	now        func() time.Time
}

func NewReportService(detailRepo repository.DeliveryDetailRepository) ReportService {
	return &reportService{
		detailRepo: detailRepo,
		now:        time.Now,
	}
}

func (s *reportService) BuildDeliveryDetailsWorkbook(ctx context.Context) (*excelize.File, error) {
	details, err := s.detailRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, deliveryReportSheet); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "rename sheet")
	}

	if err := f.SetSheetRow(deliveryReportSheet, "A1", &deliveryReportHeader); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write header")
	}

	var totalCost, totalMileage, totalPetrol, totalTime float64
	for i, d := range details {
		person := fmt.Sprintf("#%d", d.DeliveryPersonID)
		if d.DeliveryPerson != nil {
			person = d.DeliveryPerson.Name
		}
		row := []interface{}{
			d.OrderID,
			person,
			d.DeliveryCost,
			d.Mileage,
			d.PetrolCost,
			d.TimeSpent,
			d.AdditionalNotes,
			d.SubmittedAt.Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(deliveryReportSheet, cell, &row); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}

		totalCost += d.DeliveryCost
		totalMileage += d.Mileage
		totalPetrol += d.PetrolCost
		totalTime += d.TimeSpent
	}

	totals := []interface{}{"Total", len(details), totalCost, totalMileage, totalPetrol, totalTime}
	cell, _ := excelize.CoordinatesToCellName(1, len(details)+2)
	if err := f.SetSheetRow(deliveryReportSheet, cell, &totals); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write totals")
	}

	logger.Debug("Delivery details workbook built", map[string]interface{}{
		"rows": len(details),
	})
	return f, nil
}

func (s *reportService) WriteDeliveryDetailsReport(ctx context.Context, dir string) (string, error) {
	f, err := s.BuildDeliveryDetailsWorkbook(ctx)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create reports directory")
	}

	path := filepath.Join(dir, fmt.Sprintf("delivery-details-%s.xlsx", s.now().Format("20060102-150405")))
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "save report")
	}

	logger.Info("Delivery details report written", map[string]interface{}{
		"path": path,
	})
	return path, nil
}
