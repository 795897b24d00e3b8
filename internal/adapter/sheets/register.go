package sheets

import (
	"context"

	"GISourceSync/internal/adapter"
	"GISourceSync/internal/config"
	"GISourceSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.RegisterVerification(config.SourceSheets, func(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.VerificationSource, error) {
		return NewAdapter(ctx, &cfg.Verification, logger)
	})
}
