package main

import (
	"context"
	"fmt"
	"io"
	"os"

	_ "GISourceSync/internal/adapter/csvfile"
	_ "GISourceSync/internal/adapter/sheets"
	_ "GISourceSync/internal/repository"

	"GISourceSync/internal/adapter"
	"GISourceSync/internal/config"
	"GISourceSync/internal/metrics"
	"GISourceSync/internal/reconcile"
	"GISourceSync/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "gisourcesync",
	Short: "GISource 库与人工核验表对齐，生成团队绩效报表",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "配置文件路径")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "日志级别，覆盖配置文件：debug/info/warn/error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app 各子命令共用的依赖
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	reports *service.ReportService
	closers []io.Closer
}

// newApp 加载配置、初始化日志与两侧数据源；reg 为 nil 时不采集指标
func newApp(ctx context.Context, reg prometheus.Registerer) (*app, error) {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	// 2. 初始化日志
	logger := logrus.New()
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("日志级别无效: %w", err)
	}
	logger.SetLevel(lvl)
	logger.WithField("config", cfgFile).Info("配置文件加载成功")

	a := &app{cfg: cfg, logger: logger}

	// 3. 数据源
	catalog, err := adapter.NewCatalogSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if c, ok := catalog.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	verification, err := adapter.NewVerificationSource(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	// 4. 对齐与报表
	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}
	reconciler := reconcile.New(reconcile.Options{
		AutomatedMarker: cfg.Reconcile.AutomatedMarker,
		RejectEmptyKeys: cfg.Reconcile.RejectEmptyKeys,
	})
	a.reports = service.NewReportService(catalog, verification, reconciler, m, cfg.Report, logger)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.WithError(err).Warn("关闭数据源失败")
		}
	}
}
