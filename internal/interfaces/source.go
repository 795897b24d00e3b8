package interfaces

import (
	"context"

	"GISourceSync/internal/model"
)

// CatalogSource GISource 库内记录的数据源（数据库或导出文件）
type CatalogSource interface {
	Name() string                                                   // 数据源名称，用于日志与监控
	FetchCatalog(ctx context.Context) ([]model.CatalogRecord, error) // 读取未删除的全部记录
}

// VerificationSource 人工核验表的数据源（Google Sheet 或导出文件）
type VerificationSource interface {
	Name() string
	FetchVerifications(ctx context.Context) ([]model.VerificationRecord, error)
}
