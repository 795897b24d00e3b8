package csvfile

import (
	"context"

	"GISourceSync/internal/adapter"
	"GISourceSync/internal/config"
	"GISourceSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.RegisterCatalog(config.DriverCSV, func(_ context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.CatalogSource, error) {
		return NewCatalogSource(cfg.Catalog.Path, logger), nil
	})
	adapter.RegisterVerification(config.SourceCSV, func(_ context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.VerificationSource, error) {
		return NewVerificationSource(cfg.Verification.Path, logger), nil
	})
}
