package main

import (
	"fmt"
	"os"
	"path/filepath"

	"GISourceSync/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "对齐一次并导出 CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		out, _ := cmd.Flags().GetString("out")

		a, err := newApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.reports.Load(cmd.Context(), days)
		if err != nil {
			return err
		}

		if out == "" {
			out = service.ExportFileName(snap.GeneratedAt)
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("创建导出目录失败: %w", err)
			}
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("创建导出文件失败: %w", err)
		}
		if err := service.WriteCSV(f, snap.Entries); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("关闭导出文件失败: %w", err)
		}

		a.logger.WithFields(logrus.Fields{
			"run_id":  snap.RunID,
			"days":    snap.Days,
			"entries": len(snap.Entries),
			"file":    out,
		}).Info("导出完成")
		return nil
	},
}

func init() {
	exportCmd.Flags().Int("days", 0, "统计最近 N 天（0 使用配置的默认窗口，36500 为全部数据）")
	exportCmd.Flags().StringP("out", "o", "", "输出文件（默认 gisphere_performance_YYYYMMDD.csv）")
	rootCmd.AddCommand(exportCmd)
}
