// internal/adapter/registry.go
package adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"GISourceSync/internal/config"
	"GISourceSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// CatalogFactory 按配置创建库内数据源
type CatalogFactory func(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.CatalogSource, error)

// VerificationFactory 按配置创建核验表数据源
type VerificationFactory func(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.VerificationSource, error)

// ========== 全局工厂函数注册表 ==========
var (
	mu                    sync.RWMutex
	catalogFactories      = make(map[string]CatalogFactory)
	verificationFactories = make(map[string]VerificationFactory)
)

// RegisterCatalog 供数据源包的init函数调用，kind 对应 catalog.driver
func RegisterCatalog(kind string, factory CatalogFactory) {
	if factory == nil {
		panic(fmt.Sprintf("库内数据源%s的工厂函数不能为nil", kind))
	}
	kind = normalizeKind(kind)
	mu.Lock()
	defer mu.Unlock()
	if _, exists := catalogFactories[kind]; exists {
		logrus.Warnf("库内数据源%s已注册，将覆盖原有实现", kind)
	}
	catalogFactories[kind] = factory
}

// RegisterVerification kind 对应 verification.type
func RegisterVerification(kind string, factory VerificationFactory) {
	if factory == nil {
		panic(fmt.Sprintf("核验数据源%s的工厂函数不能为nil", kind))
	}
	kind = normalizeKind(kind)
	mu.Lock()
	defer mu.Unlock()
	if _, exists := verificationFactories[kind]; exists {
		logrus.Warnf("核验数据源%s已注册，将覆盖原有实现", kind)
	}
	verificationFactories[kind] = factory
}

// NewCatalogSource 按 catalog.driver 创建数据源
func NewCatalogSource(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.CatalogSource, error) {
	kind := normalizeKind(cfg.Catalog.Driver)
	mu.RLock()
	factory, ok := catalogFactories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("catalog.driver=%s 未注册数据源（已注册：%v）", kind, ListCatalogKinds())
	}
	src, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("创建库内数据源%s失败: %w", kind, err)
	}
	logger.WithFields(logrus.Fields{"kind": kind, "source": src.Name()}).Info("库内数据源初始化成功")
	return src, nil
}

// NewVerificationSource 按 verification.type 创建数据源
func NewVerificationSource(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.VerificationSource, error) {
	kind := normalizeKind(cfg.Verification.Type)
	mu.RLock()
	factory, ok := verificationFactories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("verification.type=%s 未注册数据源（已注册：%v）", kind, ListVerificationKinds())
	}
	src, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("创建核验数据源%s失败: %w", kind, err)
	}
	logger.WithFields(logrus.Fields{"kind": kind, "source": src.Name()}).Info("核验数据源初始化成功")
	return src, nil
}

// ListCatalogKinds 已注册的库内数据源类型（有序）
func ListCatalogKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(catalogFactories))
	for k := range catalogFactories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ListVerificationKinds 已注册的核验数据源类型（有序）
func ListVerificationKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(verificationFactories))
	for k := range verificationFactories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
