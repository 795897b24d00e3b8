package reconcile

import "strings"

// keySeparator 复合键分隔符
const keySeparator = "_"

// BuildKey 生成复合键：trim(reference) + "_" + trim(deadline)。
// 两部分都允许为空，空值按空串处理（两边都空时为 "_"），大小写敏感
func BuildKey(reference, deadline string) string {
	return strings.TrimSpace(reference) + keySeparator + strings.TrimSpace(deadline)
}

// isEmptyKey 两部分都为空的复合键，不同事件可能因此误匹配
func isEmptyKey(key string) bool {
	return key == keySeparator
}
