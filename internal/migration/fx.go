package migration

import (
	"github.com/smallbiznis/catalog/internal/config"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// SQL migrations target postgres; other dialects (local sqlite,
		// mysql) rely on AutoMigrate producing the same schema, unique
		// index included.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(&productdomain.Product{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
