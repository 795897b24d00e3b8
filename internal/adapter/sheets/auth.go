package sheets

import (
	"context"
	"fmt"
	"time"

	"GISourceSync/internal/config"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
)

// ReadonlyScope 只读权限即可
const ReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

const detectTimeout = 5 * time.Second

// NewTokenProvider 按 credentials_file 或默认凭据链（GOOGLE_APPLICATION_CREDENTIALS、gcloud ADC、GCE 元数据）获取凭据。
// 配置了 api_key 时不需要凭据，返回 nil
func NewTokenProvider(ctx context.Context, cfg *config.VerificationConfig) (auth.TokenProvider, error) {
	if cfg.APIKey != "" {
		return nil, nil
	}

	// DetectDefault 不接受 context，放到 goroutine 里限时
	type result struct {
		creds *auth.Credentials
		err   error
	}
	resultChan := make(chan result, 1)
	go func() {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes:          []string{ReadonlyScope},
			CredentialsFile: cfg.CredentialsFile,
		})
		resultChan <- result{creds: creds, err: err}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return nil, fmt.Errorf("获取Google凭据失败（可配置 credentials_file 或 api_key）: %w", res.err)
		}
		return res.creds, nil
	case <-time.After(detectTimeout):
		return nil, fmt.Errorf("获取Google凭据超时（%s）", detectTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("获取Google凭据被取消: %w", ctx.Err())
	}
}
