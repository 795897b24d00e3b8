package csvfile

import (
	"context"
	"fmt"

	"GISourceSync/internal/interfaces"
	"GISourceSync/internal/model"

	"github.com/sirupsen/logrus"
)

var verificationRequired = []string{"Source", "Deadline", "Verifier"}

// VerificationSource 核验表（Filled）的 CSV 导出
type VerificationSource struct {
	path   string
	logger *logrus.Logger
}

func NewVerificationSource(path string, logger *logrus.Logger) interfaces.VerificationSource {
	return &VerificationSource{path: path, logger: logger}
}

func (s *VerificationSource) Name() string { return "filled_csv" }

func (s *VerificationSource) FetchVerifications(ctx context.Context) ([]model.VerificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := readTable(s.path, verificationRequired)
	if err != nil {
		return nil, fmt.Errorf("读取核验表导出失败: %w", err)
	}

	records := make([]model.VerificationRecord, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, model.VerificationRecord{
			Source:       t.get(row, "Source"),
			DeadlineRaw:  t.get(row, "Deadline"),
			Verifier:     t.get(row, "Verifier"),
			Direction:    t.get(row, "Direction"),
			UniversityCN: t.get(row, "University_CN"),
		})
	}
	s.logger.WithFields(logrus.Fields{"path": s.path, "rows": len(records)}).Info("核验表导出读取完成")
	return records, nil
}
