package model

// VerificationRecord 人工核验表（Google Sheet "Filled"）中的一行
type VerificationRecord struct {
	Source       string `json:"source"`        // 人工录入的来源 URL
	DeadlineRaw  string `json:"deadline_raw"`  // 原始截止日期：ISO 日期 / 表格序列号 / Soon
	Verifier     string `json:"verifier"`      // 核验人；LLM 表示自动录入
	Direction    string `json:"direction"`     // 方向分类
	UniversityCN string `json:"university_cn"` // 表内学校名，仅展示，不参与匹配
}
