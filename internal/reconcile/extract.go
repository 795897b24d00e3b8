package reconcile

import "regexp"

var (
	descURLPattern      = regexp.MustCompile(`(?i)URL:\s*(https?://[^\s<]+)`)
	descDeadlinePattern = regexp.MustCompile(`(?i)Deadline:\s*(\d{4}-\d{2}-\d{2}|Soon)`)
)

// ExtractKey 从库内 Description 中提取来源 URL 与截止日期原文。
// 截止日期只接受严格的 YYYY-MM-DD 或 Soon（保留原始大小写）；未命中的字段返回空串，多次出现取第一个
func ExtractKey(description string) (source, deadline string) {
	if m := descURLPattern.FindStringSubmatch(description); m != nil {
		source = m[1]
	}
	if m := descDeadlinePattern.FindStringSubmatch(description); m != nil {
		deadline = m[1]
	}
	return source, deadline
}
