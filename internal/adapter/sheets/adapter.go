// Package sheets 通过 Google Sheets REST API 读取人工核验表
package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GISourceSync/internal/config"
	"GISourceSync/internal/interfaces"
	"GISourceSync/internal/model"
	"GISourceSync/internal/utils/httpclient"

	"cloud.google.com/go/auth"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// 核验表表头
const (
	ColumnSource       = "Source"
	ColumnDeadline     = "Deadline"
	ColumnVerifier     = "Verifier"
	ColumnDirection    = "Direction"
	ColumnUniversityCN = "University_CN"
)

var requiredColumns = []string{ColumnSource, ColumnDeadline, ColumnVerifier}

const maxErrorBody = 4096

// Adapter Google Sheet 核验表数据源
type Adapter struct {
	cfg    *config.VerificationConfig
	client *retryablehttp.Client
	tokens auth.TokenProvider // 为 nil 时使用 api_key
	logger *logrus.Logger
}

// NewAdapter 创建适配器，凭据在创建时解析
func NewAdapter(ctx context.Context, cfg *config.VerificationConfig, logger *logrus.Logger) (*Adapter, error) {
	tokens, err := NewTokenProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewAdapterWithTokens(cfg, tokens, logger), nil
}

// NewAdapterWithTokens 使用外部提供的 TokenProvider
func NewAdapterWithTokens(cfg *config.VerificationConfig, tokens auth.TokenProvider, logger *logrus.Logger) *Adapter {
	client := httpclient.NewRetryableClient(httpclient.Options{
		Timeout:    time.Duration(cfg.Timeout) * time.Second,
		RetryCount: cfg.RetryCount,
		Proxy:      cfg.Proxy,
	}, logger)
	return &Adapter{cfg: cfg, client: client, tokens: tokens, logger: logger}
}

var _ interfaces.VerificationSource = (*Adapter)(nil)

func (a *Adapter) Name() string { return "google_sheets" }

// FetchVerifications 读取整张核验表：首行为表头，短行按表头补齐空值
func (a *Adapter) FetchVerifications(ctx context.Context) ([]model.VerificationRecord, error) {
	body, err := a.getValues(ctx)
	if err != nil {
		return nil, err
	}

	records, err := ParseValues(body)
	if err != nil {
		return nil, err
	}
	a.logger.WithFields(logrus.Fields{
		"spreadsheet": a.cfg.SpreadsheetID,
		"range":       a.cfg.Range,
		"rows":        len(records),
	}).Info("核验表读取完成")
	return records, nil
}

func (a *Adapter) valuesURL() string {
	q := url.Values{}
	q.Set("majorDimension", "ROWS")
	if a.cfg.ValueRenderOption != "" {
		q.Set("valueRenderOption", a.cfg.ValueRenderOption)
	}
	if a.cfg.APIKey != "" {
		q.Set("key", a.cfg.APIKey)
	}
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?%s",
		strings.TrimRight(a.cfg.BaseURL, "/"),
		url.PathEscape(a.cfg.SpreadsheetID),
		url.PathEscape(a.cfg.Range),
		q.Encode(),
	)
}

func (a *Adapter) getValues(ctx context.Context) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, a.valuesURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("构建Sheets请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.tokens != nil {
		token, err := a.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取访问令牌失败: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.Value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求Sheets API失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("Sheets API返回状态码%d: %s", resp.StatusCode, msg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取Sheets响应失败: %w", err)
	}
	return body, nil
}

// ParseValues 解析 values.get 的响应体。没有数据时返回空切片
func ParseValues(body []byte) ([]model.VerificationRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Sheets响应不是合法JSON")
	}
	rows := gjson.GetBytes(body, "values").Array()
	if len(rows) == 0 {
		return []model.VerificationRecord{}, nil
	}

	index := make(map[string]int)
	for i, h := range rows[0].Array() {
		name := strings.TrimSpace(h.String())
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("核验表缺少列 %q", col)
		}
	}

	records := make([]model.VerificationRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := row.Array()
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(cells) {
				return ""
			}
			return cells[i].String()
		}
		records = append(records, model.VerificationRecord{
			Source:       cell(ColumnSource),
			DeadlineRaw:  cell(ColumnDeadline),
			Verifier:     cell(ColumnVerifier),
			Direction:    cell(ColumnDirection),
			UniversityCN: cell(ColumnUniversityCN),
		})
	}
	return records, nil
}
