// Package reconcile 把 GISource 库内记录与人工核验表按复合键（来源 URL + 截止日期）对齐，
// 过滤无效核验人，并计算每条记录的提前天数。
//
// 包内全部为纯函数：不做 I/O、不持有全局状态、不修改入参，可在多个 goroutine 中并发调用。
package reconcile

import (
	"strings"
	"time"

	"GISourceSync/internal/model"
)

// DefaultAutomatedMarker 自动录入（非人工核验）的核验人标记
const DefaultAutomatedMarker = "LLM"

// Options 对齐选项
type Options struct {
	// AutomatedMarker 核验人等于该值（去空格后）时整行丢弃，默认 LLM
	AutomatedMarker string
	// RejectEmptyKeys 为 true 时，URL 与截止日期都为空的复合键（"_"）不参与匹配。
	// 默认 false，与原有行为保持一致：空键之间照常匹配
	RejectEmptyKeys bool
}

// Stats 单次对齐的统计信息，供日志与监控使用
type Stats struct {
	CatalogRows         int `json:"catalog_rows"`
	VerificationRows    int `json:"verification_rows"`
	SkippedDeleted      int `json:"skipped_deleted"`
	RejectedEmptyKeys   int `json:"rejected_empty_keys"`
	UnmatchedCatalog    int `json:"unmatched_catalog"`
	JoinedPairs         int `json:"joined_pairs"` // 过滤核验人之前的匹配对数
	DroppedByVerifier   int `json:"dropped_by_verifier"`
	UnresolvedDeadlines int `json:"unresolved_deadlines"`
	NegativeLeadTimes   int `json:"negative_lead_times"`
	Entries             int `json:"entries"`
}

// Result 对齐结果
type Result struct {
	Entries []model.VerifiedEntry
	Stats   Stats
}

// Reconciler 库内记录与核验记录的对齐器
type Reconciler struct {
	opts Options
}

// New 创建 Reconciler
func New(opts Options) *Reconciler {
	if strings.TrimSpace(opts.AutomatedMarker) == "" {
		opts.AutomatedMarker = DefaultAutomatedMarker
	}
	return &Reconciler{opts: opts}
}

// Reconcile 只返回匹配结果，见 Run
func (r *Reconciler) Reconcile(catalog []model.CatalogRecord, verifications []model.VerificationRecord) []model.VerifiedEntry {
	return r.Run(catalog, verifications).Entries
}

// Run 执行对齐：
//  1. 库内记录：从 Description 提取 URL 与截止日期原文，用原文生成复合键
//  2. 核验记录：截止日期按核验模式归一化（日期串或 Soon）后生成复合键
//  3. 按复合键做内连接，同键多对多全部保留
//  4. 丢弃核验人为空、全空白或为自动录入标记的匹配对
//  5. 库内截止日期原文按库内模式解析（Soon = 入库 + 30 天）
//  6. 提前天数 = 截止日期 - 入库日期；无法解析时为空，负值保留
//
// 输出顺序为库内记录顺序，同一键下按核验记录顺序；需要稳定排序的调用方自行排序。
func (r *Reconciler) Run(catalog []model.CatalogRecord, verifications []model.VerificationRecord) Result {
	stats := Stats{
		CatalogRows:      len(catalog),
		VerificationRows: len(verifications),
	}
	if len(catalog) == 0 || len(verifications) == 0 {
		return Result{Entries: []model.VerifiedEntry{}, Stats: stats}
	}

	index := make(map[string][]int, len(verifications))
	for i := range verifications {
		v := &verifications[i]
		key := BuildKey(v.Source, NormalizeVerification(v.DeadlineRaw).String())
		if r.opts.RejectEmptyKeys && isEmptyKey(key) {
			stats.RejectedEmptyKeys++
			continue
		}
		index[key] = append(index[key], i)
	}

	entries := make([]model.VerifiedEntry, 0, len(catalog))
	for i := range catalog {
		c := &catalog[i]
		if c.IsDeleted {
			stats.SkippedDeleted++
			continue
		}

		source, token := ExtractKey(c.Description)
		key := BuildKey(source, token)
		if r.opts.RejectEmptyKeys && isEmptyKey(key) {
			stats.RejectedEmptyKeys++
			continue
		}
		matches := index[key]
		if len(matches) == 0 {
			stats.UnmatchedCatalog++
			continue
		}

		for _, j := range matches {
			v := &verifications[j]
			stats.JoinedPairs++
			if !r.acceptVerifier(v.Verifier) {
				stats.DroppedByVerifier++
				continue
			}

			entry := model.VerifiedEntry{
				CatalogRecord:     *c,
				Verifier:          v.Verifier,
				Direction:         v.Direction,
				SheetUniversityCN: v.UniversityCN,
				ExtractedSource:   source,
				ExtractedDeadline: token,
				CompositeKey:      key,
			}
			entry.Date = copyTime(c.Date)

			deadline, ok := NormalizeCatalog(token, c.Date).Date()
			if !ok {
				stats.UnresolvedDeadlines++
			} else {
				entry.DeadlineDate = &deadline
				if c.Date != nil && !c.Date.IsZero() {
					days := DaysBetween(*c.Date, deadline)
					entry.LeadTimeDays = &days
					if days < 0 {
						stats.NegativeLeadTimes++
					}
				}
			}
			entries = append(entries, entry)
		}
	}

	stats.Entries = len(entries)
	return Result{Entries: entries, Stats: stats}
}

// acceptVerifier 核验人非空且不是自动录入标记
func (r *Reconciler) acceptVerifier(verifier string) bool {
	v := strings.TrimSpace(verifier)
	return v != "" && v != r.opts.AutomatedMarker
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
