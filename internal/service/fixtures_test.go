package service

import (
	"context"
	"io"
	"time"

	"GISourceSync/internal/config"
	"GISourceSync/internal/metrics"
	"GISourceSync/internal/model"
	"GISourceSync/internal/reconcile"

	"github.com/sirupsen/logrus"
)

type fakeCatalog struct {
	rows []model.CatalogRecord
	err  error
}

func (f *fakeCatalog) Name() string { return "fake_catalog" }
func (f *fakeCatalog) FetchCatalog(context.Context) ([]model.CatalogRecord, error) {
	return f.rows, f.err
}

type fakeVerification struct {
	rows  []model.VerificationRecord
	err   error
	calls int
}

func (f *fakeVerification) Name() string { return "fake_verification" }
func (f *fakeVerification) FetchVerifications(context.Context) ([]model.VerificationRecord, error) {
	f.calls++
	return f.rows, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func intPtr(v int) *int { return &v }

func row(id, url, deadline, country, job string, entered *time.Time) model.CatalogRecord {
	return model.CatalogRecord{
		EventID:      id,
		UniversityCN: "大学" + id,
		CountryCN:    country,
		JobCN:        job,
		Description:  "URL: " + url + "\nDeadline: " + deadline,
		Date:         entered,
	}
}

// sampleCatalog 以 2024-01-20（上海时区）为“今天”
func sampleCatalog() []model.CatalogRecord {
	return []model.CatalogRecord{
		row("e1", "https://a.org/1", "2024-02-01", "英国", "博士", datePtr(2024, 1, 18)),
		row("e2", "https://a.org/2", "Soon", "英国", "博士", datePtr(2024, 1, 10)),
		row("e3", "https://a.org/3", "2024-01-01", "德国", "博后", datePtr(2023, 12, 1)),
		row("e4", "https://a.org/4", "2024-03-01", "法国", "博士", nil),
		row("e5", "https://a.org/5", "2024-01-10", "美国", "博士", datePtr(2024, 1, 15)),
	}
}

func sampleVerifications() []model.VerificationRecord {
	return []model.VerificationRecord{
		{Source: "https://a.org/1", DeadlineRaw: "2024-02-01", Verifier: "alice", Direction: "GIS"},
		{Source: "https://a.org/1", DeadlineRaw: "2024-02-01", Verifier: "LLM"},
		{Source: "https://a.org/2", DeadlineRaw: "Soon", Verifier: "bob", Direction: "RS"},
		{Source: "https://a.org/3", DeadlineRaw: "45292", Verifier: "alice"},
		{Source: "https://a.org/4", DeadlineRaw: "2024-03-01", Verifier: "carol"},
		{Source: "https://a.org/5", DeadlineRaw: "2024-01-10", Verifier: " carol "},
	}
}

func newTestService(catalog *fakeCatalog, verification *fakeVerification, m *metrics.Metrics) *ReportService {
	svc := NewReportService(
		catalog,
		verification,
		reconcile.New(reconcile.Options{}),
		m,
		config.ReportConfig{Timezone: "Asia/Shanghai", DefaultDays: 30, RecentDays: 7, TopCountries: 10},
		quietLogger(),
	)
	// UTC 2024-01-19 18:00 即上海 2024-01-20 02:00
	svc.now = func() time.Time { return time.Date(2024, 1, 19, 18, 0, 0, 0, time.UTC) }
	return svc
}
