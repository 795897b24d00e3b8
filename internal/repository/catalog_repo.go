package repository

import (
	"context"
	"fmt"

	"GISourceSync/internal/interfaces"
	"GISourceSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository GISource 表只读查询
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) interfaces.CatalogSource {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Name() string { return "gisource_db" }

// FetchCatalog 读取未删除记录，按入库日期倒序
func (r *CatalogRepository) FetchCatalog(ctx context.Context) ([]model.CatalogRecord, error) {
	var rows []model.CatalogRecord
	if err := r.activeQuery(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询GISource失败: %w", err)
	}
	return rows, nil
}

// activeQuery 列名大小写混用，统一走 clause 让方言负责加引号
func (r *CatalogRepository) activeQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{QueryFields: true}).
		Model(&model.CatalogRecord{}).
		Where(clause.Eq{Column: clause.Column{Name: "IS_Deleted"}, Value: false}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "Date"}, Desc: true})
}

// Close 关闭底层连接池
func (r *CatalogRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
