package httpclient

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// Options 客户端参数
type Options struct {
	Timeout    time.Duration // 单次请求超时
	RetryCount int           // 失败重试次数（5xx/429/网络错误）
	Proxy      string        // 代理地址
}

// NewRetryableClient 通用HTTP客户端构建方法（支持代理、超时、自动解压、重试）
func NewRetryableClient(opts Options, logger *logrus.Logger) *retryablehttp.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  false,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", opts.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", opts.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Timeout:   opts.Timeout,
		Transport: &compressedTransport{transport: transport, logger: logger},
	}
	client.RetryMax = opts.RetryCount
	if client.RetryMax < 0 {
		client.RetryMax = 0
	}
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = &leveledLogger{entry: logger.WithField("component", "httpclient")}
	return client
}

// leveledLogger 把 retryablehttp 的日志转给 logrus，请求级日志降到 debug
type leveledLogger struct {
	entry *logrus.Entry
}

func (l *leveledLogger) Error(msg string, kv ...interface{}) { l.with(kv).Error(msg) }
func (l *leveledLogger) Warn(msg string, kv ...interface{})  { l.with(kv).Warn(msg) }
func (l *leveledLogger) Info(msg string, kv ...interface{})  { l.with(kv).Debug(msg) }
func (l *leveledLogger) Debug(msg string, kv ...interface{}) { l.with(kv).Debug(msg) }

func (l *leveledLogger) with(kv []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	return l.entry.WithFields(fields)
}

type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// 处理gzip解压
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("gzip解压失败，返回原始响应")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{
			Reader: gzReader,
			closer: resp.Body,
		}
		resp.Header.Del("Content-Encoding")
		resp.ContentLength = -1
	}

	return resp, nil
}

// gzipReadCloser 同时关闭解压reader和原始响应体
type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.closer.Close()
		return err
	}
	return g.closer.Close()
}
