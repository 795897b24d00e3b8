package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"GISourceSync/internal/model"
	"GISourceSync/internal/reconcile"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExportHeader 导出列
var ExportHeader = []string{
	"Date", "Verifier", "University_CN", "Country_CN", "Job_CN",
	"Direction", "Extracted_Deadline", "Lead_Time_Days",
}

// ExportFileName 导出文件名，按报表时区取日期
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("gisphere_performance_%s.csv", now.Format("20060102"))
}

// WriteCSV 写出带 BOM 的 UTF-8 CSV，Excel 可直接打开。
// Extracted_Deadline 只输出可解析的日期，Soon 输出为空
func WriteCSV(w io.Writer, entries []model.VerifiedEntry) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("写入CSV表头失败: %w", err)
	}
	for i := range entries {
		if err := cw.Write(exportRow(&entries[i])); err != nil {
			return fmt.Errorf("写入CSV第%d行失败: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	return nil
}

func exportRow(e *model.VerifiedEntry) []string {
	date := ""
	if e.Date != nil {
		date = e.Date.Format(reconcile.DateLayout)
	}
	deadline := ""
	if d, ok := reconcile.ParseCalendarDate(e.ExtractedDeadline); ok {
		deadline = d.Format(reconcile.DateLayout)
	}
	leadTime := ""
	if e.LeadTimeDays != nil {
		leadTime = strconv.Itoa(*e.LeadTimeDays)
	}
	return []string{
		date,
		e.Verifier,
		e.UniversityCN,
		e.CountryCN,
		e.JobCN,
		e.Direction,
		deadline,
		leadTime,
	}
}
