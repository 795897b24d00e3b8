// Package csvfile 从导出的 CSV 文件读取库内记录与核验表，用于离线运行
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// table 按表头名取值的 CSV 内容
type table struct {
	index map[string]int
	rows  [][]string
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// get 列不存在或行过短时返回空串
func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func readTable(path string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开CSV文件失败: %w", err)
	}
	defer f.Close()
	return parseTable(f, required)
}

// parseTable 兼容带 BOM 的 UTF-8（Excel 导出）
func parseTable(r io.Reader, required []string) (*table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &table{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取CSV表头失败: %w", err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for _, col := range required {
		if !t.has(col) {
			return nil, fmt.Errorf("CSV缺少列 %q", col)
		}
	}

	t.rows, err = reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取CSV内容失败: %w", err)
	}
	return t, nil
}
