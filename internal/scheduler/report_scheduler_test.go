package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeReports struct {
	mu    sync.Mutex
	dirs  []string
	fail  bool
	calls int
}

func (f *fakeReports) BuildDeliveryDetailsWorkbook(context.Context) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func (f *fakeReports) WriteDeliveryDetailsReport(_ context.Context, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return "", errors.New("disk full")
	}
	f.dirs = append(f.dirs, dir)
	return filepath.Join(dir, "delivery-details.xlsx"), nil
}

func TestReportScheduler_Run(t *testing.T) {
	reports := &fakeReports{}
	s := NewReportScheduler(reports, "/tmp/reports", "0 1 * * *")

	s.Run()

	assert.Equal(t, 1, reports.calls)
	assert.Equal(t, []string{"/tmp/reports"}, reports.dirs)
}

func TestReportScheduler_RunFailureIsSwallowed(t *testing.T) {
	reports := &fakeReports{fail: true}
	s := NewReportScheduler(reports, t.TempDir(), "0 1 * * *")

	assert.NotPanics(t, s.Run)
	assert.Equal(t, 1, reports.calls)
}

func TestReportScheduler_StartStop(t *testing.T) {
	s := NewReportScheduler(&fakeReports{}, t.TempDir(), "@every 1h")
	require.NoError(t, s.Start())
	s.Stop()
}

func TestReportScheduler_InvalidSchedule(t *testing.T) {
	s := NewReportScheduler(&fakeReports{}, t.TempDir(), "not a cron spec")
	assert.Error(t, s.Start())
}
