package db

import (
	"context"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

// AutoMigrate creates or updates the four transactional tables plus the
// reports table. The schema is small enough that GORM's migrator is the
// whole migration story.
func (c *Client) AutoMigrate(ctx context.Context, logg *logger.Logger) error {
	if err := c.conn.WithContext(ctx).AutoMigrate(
		&models.Account{},
		&models.Order{},
		&models.Collection{},
		&models.ReturnScan{},
		&models.WeeklyReport{},
	); err != nil {
		return err
	}
	if logg != nil {
		logg.Info(ctx, "database schema migrated")
	}
	return nil
}
