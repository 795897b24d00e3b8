package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"GISourceSync/internal/config"
	"GISourceSync/internal/interfaces"
	"GISourceSync/internal/metrics"
	"GISourceSync/internal/model"
	"GISourceSync/internal/reconcile"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSourceUnavailable 任一数据源读取失败
var ErrSourceUnavailable = errors.New("数据源不可用")

// Snapshot 一次对齐并按窗口筛选后的结果
type Snapshot struct {
	RunID        string                `json:"run_id"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Days         int                   `json:"days"`
	StartDate    string                `json:"start_date"`    // 窗口起始日（含）
	TotalEntries int                   `json:"total_entries"` // 窗口筛选前的匹配条数
	Stats        reconcile.Stats       `json:"stats"`
	Entries      []model.VerifiedEntry `json:"entries"` // 按入库日期倒序

	today time.Time
}

// ReportService 读取两侧数据源、对齐并生成报表
type ReportService struct {
	catalog      interfaces.CatalogSource
	verification interfaces.VerificationSource
	reconciler   *reconcile.Reconciler
	metrics      *metrics.Metrics
	cfg          config.ReportConfig
	loc          *time.Location
	now          func() time.Time
	logger       *logrus.Logger
}

// NewReportService m 可为 nil
func NewReportService(
	catalog interfaces.CatalogSource,
	verification interfaces.VerificationSource,
	reconciler *reconcile.Reconciler,
	m *metrics.Metrics,
	cfg config.ReportConfig,
	logger *logrus.Logger,
) *ReportService {
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 30
	}
	if cfg.RecentDays <= 0 {
		cfg.RecentDays = 7
	}
	if cfg.TopCountries <= 0 {
		cfg.TopCountries = 10
	}
	return &ReportService{
		catalog:      catalog,
		verification: verification,
		reconciler:   reconciler,
		metrics:      m,
		cfg:          cfg,
		loc:          cfg.Location(),
		now:          time.Now,
		logger:       logger,
	}
}

// DefaultDays 未指定窗口时使用的天数
func (s *ReportService) DefaultDays() int { return s.cfg.DefaultDays }

// Load 读取两侧数据源并对齐，保留入库日期在最近 days 天内（含起始日）的记录。
// days <= 0 时使用配置的默认窗口；入库日期为空的记录不在任何窗口内
func (s *ReportService) Load(ctx context.Context, days int) (*Snapshot, error) {
	if days <= 0 {
		days = s.cfg.DefaultDays
	}
	runID := uuid.NewString()
	started := s.now()
	log := s.logger.WithFields(logrus.Fields{"run_id": runID, "days": days})

	result, err := s.fetchAndReconcile(ctx, log)
	s.metrics.ObserveRun(result.Stats, s.now().Sub(started), err, s.now())
	if err != nil {
		log.WithError(err).Error("对齐失败")
		return nil, err
	}

	today := s.today()
	start := today.AddDate(0, 0, -days)
	entries := FilterSince(result.Entries, start)

	log.WithFields(logrus.Fields{
		"catalog_rows":         result.Stats.CatalogRows,
		"verification_rows":    result.Stats.VerificationRows,
		"joined_pairs":         result.Stats.JoinedPairs,
		"dropped_by_verifier":  result.Stats.DroppedByVerifier,
		"unresolved_deadlines": result.Stats.UnresolvedDeadlines,
		"negative_lead_times":  result.Stats.NegativeLeadTimes,
		"entries":              result.Stats.Entries,
		"in_window":            len(entries),
		"elapsed":              s.now().Sub(started).String(),
	}).Info("对齐完成")

	return &Snapshot{
		RunID:        runID,
		GeneratedAt:  s.now().In(s.loc),
		Days:         days,
		StartDate:    start.Format(reconcile.DateLayout),
		TotalEntries: len(result.Entries),
		Stats:        result.Stats,
		Entries:      entries,
		today:        today,
	}, nil
}

// BuildReport Load 之后计算全部统计
func (s *ReportService) BuildReport(ctx context.Context, days int) (*Report, error) {
	snap, err := s.Load(ctx, days)
	if err != nil {
		return nil, err
	}
	return Aggregate(snap, s.cfg.RecentDays, s.cfg.TopCountries), nil
}

// fetchAndReconcile 两侧数据源顺序读取
func (s *ReportService) fetchAndReconcile(ctx context.Context, log *logrus.Entry) (reconcile.Result, error) {
	catalog, err := s.catalog.FetchCatalog(ctx)
	s.metrics.ObserveFetch(s.catalog.Name(), len(catalog), err)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.catalog.Name(), err)
	}

	verifications, err := s.verification.FetchVerifications(ctx)
	s.metrics.ObserveFetch(s.verification.Name(), len(verifications), err)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.verification.Name(), err)
	}

	if len(catalog) == 0 || len(verifications) == 0 {
		log.WithFields(logrus.Fields{
			"catalog_rows":      len(catalog),
			"verification_rows": len(verifications),
		}).Warn("数据为空，无法生成报表")
	}
	return s.reconciler.Run(catalog, verifications), nil
}

// today 报表时区下的当天（UTC 零点表示）
func (s *ReportService) today() time.Time {
	return reconcile.CivilDate(s.now().In(s.loc))
}

// FilterSince 保留入库日期 >= start 的记录并按入库日期倒序（稳定排序）
func FilterSince(entries []model.VerifiedEntry, start time.Time) []model.VerifiedEntry {
	start = reconcile.CivilDate(start)
	out := make([]model.VerifiedEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date == nil || reconcile.CivilDate(*e.Date).Before(start) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(*out[j].Date)
	})
	return out
}
