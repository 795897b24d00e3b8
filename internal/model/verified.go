package model

import "time"

// VerifiedEntry 库内记录与核验记录按复合键匹配后的结果
type VerifiedEntry struct {
	CatalogRecord

	Verifier          string `json:"verifier"`
	Direction         string `json:"direction"`
	SheetUniversityCN string `json:"sheet_university_cn"`

	ExtractedSource   string     `json:"extracted_source"`   // 从 Description 提取的 URL
	ExtractedDeadline string     `json:"extracted_deadline"` // 从 Description 提取的截止日期原文（日期或 Soon）
	CompositeKey      string     `json:"composite_key"`
	DeadlineDate      *time.Time `json:"deadline_date"`  // 解析后的截止日期，Soon 已换算为入库 + 30 天
	LeadTimeDays      *int       `json:"lead_time_days"` // 提前天数 = 截止日期 - 入库日期，可能为负
}

// HasValidLeadTime 提前天数存在且非负，只有这类记录参与平均值等统计
func (e *VerifiedEntry) HasValidLeadTime() bool {
	return e.LeadTimeDays != nil && *e.LeadTimeDays >= 0
}
