package service

import (
	"sort"
	"strings"
	"time"

	"GISourceSync/internal/model"
	"GISourceSync/internal/reconcile"
)

// Summary 关键指标
type Summary struct {
	TotalEntries    int     `json:"total_entries"`
	ActiveMembers   int     `json:"active_members"`     // 不同核验人数
	AvgLeadTimeDays float64 `json:"avg_lead_time_days"` // 仅统计非负提前天数，无样本时为 0
	MaxLeadTimeDays *int    `json:"max_lead_time_days"`
	LeadTimeSamples int     `json:"lead_time_samples"`
	RecentDays      int     `json:"recent_days"`
	RecentEntries   int     `json:"recent_entries"` // 最近 RecentDays 天新增
}

// CountItem 名称-数量
type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyCount 某天某核验人的入库数
type DailyCount struct {
	Date     string `json:"date"`
	Verifier string `json:"verifier"`
	Count    int    `json:"count"`
}

// MemberLeadTime 核验人的平均提前天数
type MemberLeadTime struct {
	Verifier        string  `json:"verifier"`
	AvgLeadTimeDays float64 `json:"avg_lead_time_days"`
	Samples         int     `json:"samples"`
}

// Report 绩效报表
type Report struct {
	RunID            string           `json:"run_id"`
	GeneratedAt      time.Time        `json:"generated_at"`
	Days             int              `json:"days"`
	StartDate        string           `json:"start_date"`
	TotalEntries     int              `json:"total_entries"`
	Stats            reconcile.Stats  `json:"stats"`
	Summary          Summary          `json:"summary"`
	Leaderboard      []CountItem      `json:"leaderboard"`
	DailyTrend       []DailyCount     `json:"daily_trend"`
	LeadTimeByMember []MemberLeadTime `json:"lead_time_by_member"`
	TopCountries     []CountItem      `json:"top_countries"`
	RoleDistribution []CountItem      `json:"role_distribution"`
}

// Aggregate 基于窗口内的记录计算全部统计
func Aggregate(snap *Snapshot, recentDays, topCountries int) *Report {
	entries := snap.Entries
	return &Report{
		RunID:            snap.RunID,
		GeneratedAt:      snap.GeneratedAt,
		Days:             snap.Days,
		StartDate:        snap.StartDate,
		TotalEntries:     snap.TotalEntries,
		Stats:            snap.Stats,
		Summary:          Summarize(entries, snap.today, recentDays),
		Leaderboard:      Leaderboard(entries),
		DailyTrend:       DailyTrend(entries),
		LeadTimeByMember: LeadTimeByMember(entries),
		TopCountries:     topN(countBy(entries, func(e *model.VerifiedEntry) string { return e.CountryCN }), topCountries),
		RoleDistribution: countBy(entries, func(e *model.VerifiedEntry) string { return e.JobCN }),
	}
}

// Summarize today 为报表时区下的当天
func Summarize(entries []model.VerifiedEntry, today time.Time, recentDays int) Summary {
	s := Summary{TotalEntries: len(entries), RecentDays: recentDays}

	members := make(map[string]struct{})
	recentStart := reconcile.CivilDate(today).AddDate(0, 0, -recentDays)
	sum := 0
	for i := range entries {
		e := &entries[i]
		members[verifierName(e)] = struct{}{}
		if e.Date != nil && !reconcile.CivilDate(*e.Date).Before(recentStart) {
			s.RecentEntries++
		}
		if !e.HasValidLeadTime() {
			continue
		}
		lt := *e.LeadTimeDays
		sum += lt
		s.LeadTimeSamples++
		if s.MaxLeadTimeDays == nil || lt > *s.MaxLeadTimeDays {
			v := lt
			s.MaxLeadTimeDays = &v
		}
	}
	s.ActiveMembers = len(members)
	if s.LeadTimeSamples > 0 {
		s.AvgLeadTimeDays = float64(sum) / float64(s.LeadTimeSamples)
	}
	return s
}

// Leaderboard 每个核验人的入库数，降序
func Leaderboard(entries []model.VerifiedEntry) []CountItem {
	return countBy(entries, verifierName)
}

// DailyTrend 按 (入库日期, 核验人) 计数，日期升序
func DailyTrend(entries []model.VerifiedEntry) []DailyCount {
	type key struct{ date, verifier string }
	counts := make(map[key]int)
	for i := range entries {
		e := &entries[i]
		if e.Date == nil {
			continue
		}
		counts[key{e.Date.Format(reconcile.DateLayout), verifierName(e)}]++
	}

	out := make([]DailyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, DailyCount{Date: k.date, Verifier: k.verifier, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Verifier < out[j].Verifier
	})
	return out
}

// LeadTimeByMember 每个核验人的平均非负提前天数，降序
func LeadTimeByMember(entries []model.VerifiedEntry) []MemberLeadTime {
	type acc struct{ sum, n int }
	byMember := make(map[string]*acc)
	for i := range entries {
		e := &entries[i]
		if !e.HasValidLeadTime() {
			continue
		}
		name := verifierName(e)
		a, ok := byMember[name]
		if !ok {
			a = &acc{}
			byMember[name] = a
		}
		a.sum += *e.LeadTimeDays
		a.n++
	}

	out := make([]MemberLeadTime, 0, len(byMember))
	for name, a := range byMember {
		out = append(out, MemberLeadTime{
			Verifier:        name,
			AvgLeadTimeDays: float64(a.sum) / float64(a.n),
			Samples:         a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgLeadTimeDays != out[j].AvgLeadTimeDays {
			return out[i].AvgLeadTimeDays > out[j].AvgLeadTimeDays
		}
		return out[i].Verifier < out[j].Verifier
	})
	return out
}

// countBy 空值不计入；数量降序，同数量按名称升序
func countBy(entries []model.VerifiedEntry, field func(e *model.VerifiedEntry) string) []CountItem {
	counts := make(map[string]int)
	for i := range entries {
		name := strings.TrimSpace(field(&entries[i]))
		if name == "" {
			continue
		}
		counts[name]++
	}

	out := make([]CountItem, 0, len(counts))
	for name, n := range counts {
		out = append(out, CountItem{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func topN(items []CountItem, n int) []CountItem {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// verifierName 核验人名去掉首尾空白后参与分组
func verifierName(e *model.VerifiedEntry) string {
	return strings.TrimSpace(e.Verifier)
}
