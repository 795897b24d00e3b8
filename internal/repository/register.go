package repository

import (
	"context"

	"GISourceSync/internal/adapter"
	"GISourceSync/internal/config"
	"GISourceSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

func init() {
	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres} {
		adapter.RegisterCatalog(driver, openCatalogRepository)
	}
}

func openCatalogRepository(_ context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.CatalogSource, error) {
	db, err := OpenCatalogDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewCatalogRepository(db), nil
}
