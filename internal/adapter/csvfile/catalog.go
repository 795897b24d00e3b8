package csvfile

import (
	"context"
	"fmt"
	"strings"

	"GISourceSync/internal/interfaces"
	"GISourceSync/internal/model"
	"GISourceSync/internal/reconcile"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

var catalogRequired = []string{"Event_ID", "Description", "Date"}

// CatalogSource GISource 表的 CSV 导出，表头与数据库列名一致
type CatalogSource struct {
	path   string
	logger *logrus.Logger
}

func NewCatalogSource(path string, logger *logrus.Logger) interfaces.CatalogSource {
	return &CatalogSource{path: path, logger: logger}
}

func (s *CatalogSource) Name() string { return "gisource_csv" }

// FetchCatalog 读取文件中未删除的记录；Date 无法解析时置空
func (s *CatalogSource) FetchCatalog(ctx context.Context) ([]model.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := readTable(s.path, catalogRequired)
	if err != nil {
		return nil, fmt.Errorf("读取GISource导出失败: %w", err)
	}

	records := make([]model.CatalogRecord, 0, len(t.rows))
	badDates := 0
	for _, row := range t.rows {
		if cast.ToBool(strings.TrimSpace(t.get(row, "IS_Deleted"))) {
			continue
		}
		rec := model.CatalogRecord{
			EventID:      t.get(row, "Event_ID"),
			UniversityCN: t.get(row, "University_CN"),
			UniversityEN: t.get(row, "University_EN"),
			CountryCN:    t.get(row, "Country_CN"),
			JobCN:        t.get(row, "Job_CN"),
			JobEN:        t.get(row, "Job_EN"),
			Description:  t.get(row, "Description"),
			TitleCN:      t.get(row, "Title_CN"),
			TitleEN:      t.get(row, "Title_EN"),
			IsPublic:     cast.ToBool(strings.TrimSpace(t.get(row, "IS_Public"))),
		}
		if raw := t.get(row, "Date"); strings.TrimSpace(raw) != "" {
			if d, ok := reconcile.ParseCalendarDate(raw); ok {
				rec.Date = &d
			} else {
				badDates++
			}
		}
		records = append(records, rec)
	}

	s.logger.WithFields(logrus.Fields{
		"path":      s.path,
		"rows":      len(records),
		"bad_dates": badDates,
	}).Info("GISource导出读取完成")
	return records, nil
}
