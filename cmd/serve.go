package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"GISourceSync/internal/api"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动报表 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		defer a.Close()

		// 配置Gin运行模式（从配置读取：debug/release）
		gin.SetMode(a.cfg.Server.Mode)
		r := gin.New()
		r.Use(gin.Recovery())

		// 注册ppof 方便调试和监测性能问题
		pprof.Register(r)
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
		r.GET("/healthz", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		api.NewReportHandler(a.reports, a.logger).Register(r)
		a.logger.Infof("Gin运行模式: %s", a.cfg.Server.Mode)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			a.logger.Infof("服务启动成功，端口：%d", a.cfg.Server.Port)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("启动服务失败: %w", err)
		case <-ctx.Done():
		}

		a.logger.Info("收到退出信号，正在关闭服务")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
