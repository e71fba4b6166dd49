package app

import (
	"context"
	"fmt"
	"time"

	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/modules/stats"
	pkgcron "github.com/carelinkhq/carechat-core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")
	statsSvc := stats.NewService(db)

	sched.Register(pkgcron.Job{
		Name:        "daily_stats_rollup",
		Description: "recompute today's stats snapshot for every app",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			scopes, err := activeScopes(db)
			if err != nil {
				cronLogger.Warn("stats rollup scope listing failed", zap.Error(err))
				return err
			}
			failed := 0
			for _, scope := range scopes {
				if _, err := statsSvc.Summary(scope); err != nil {
					cronLogger.Warn("stats rollup failed",
						zap.String("tenant_id", scope.TenantID),
						zap.String("app_id", scope.AppID),
						zap.Error(err))
					failed++
				}
			}
			cronLogger.Info(fmt.Sprintf("stats rollup done for %d apps, %d failed", len(scopes), failed))
			return nil
		},
	})
}

// activeScopes lists every (tenant, app) pair that has conversations or
// profiles, so the daily snapshot exists even on days without a summary
// request.
func activeScopes(db *gorm.DB) ([]middleware.AppScope, error) {
	var scopes []middleware.AppScope
	seen := make(map[middleware.AppScope]struct{})

	collect := func(model interface{}) error {
		var rows []middleware.AppScope
		err := db.Model(model).
			Distinct("tenant_id", "app_id").
			Find(&rows).Error
		if err != nil {
			return err
		}
		for _, s := range rows {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				scopes = append(scopes, s)
			}
		}
		return nil
	}

	if err := collect(&models.ConversationModel{}); err != nil {
		return nil, err
	}
	if err := collect(&models.PatientProfileModel{}); err != nil {
		return nil, err
	}
	return scopes, nil
}
