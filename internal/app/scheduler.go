package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/motosync/internal/domain"
	"go.uber.org/zap"
)

// StartSchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers()
			}
		}
	}()
}

// runSchedulers executes enabled schedulers whose next run is due
func (a *Application) runSchedulers() {
	var schedulers []domain.StoreScheduler
	a.gormDB.Where("status = ?", "enabled").Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		if sched.NextRunAt.IsZero() || now.After(sched.NextRunAt) || now.Equal(sched.NextRunAt) {
			a.runScheduler(&sched)
			a.gormDB.Model(&domain.StoreScheduler{}).Where("id = ?", sched.ID).
				Update("next_run_at", now.Add(time.Duration(sched.Interval)*time.Second))
		}
	}
}

func (a *Application) runScheduler(sched *domain.StoreScheduler) {
	switch sched.TaskType {
	case "low_stock_check":
		a.runLowStockScheduler(sched)
	case "sales_summary":
		a.runSalesSummaryScheduler(sched)
	default:
		// unsupported task type
	}
}

// RunSchedulerNow triggers a scheduler execution immediately by ID
func (a *Application) RunSchedulerNow(id int64) error {
	var sched domain.StoreScheduler
	if err := a.gormDB.First(&sched, id).Error; err != nil {
		return err
	}

	a.runScheduler(&sched)

	now := time.Now()
	a.gormDB.Model(&domain.StoreScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at": now,
		"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
	})
	return nil
}

// runLowStockScheduler reports all products at or below the low-stock threshold
func (a *Application) runLowStockScheduler(sched *domain.StoreScheduler) {
	threshold := a.lowStockThreshold()

	var products []domain.Product
	if err := a.gormDB.Where("stock <= ?", threshold).Order("stock ASC").Find(&products).Error; err != nil {
		a.finishScheduler(sched, "failed", err.Error())
		return
	}

	for _, p := range products {
		zap.L().Warn("low stock",
			zap.Int64("product_id", p.ID),
			zap.String("name", p.Name),
			zap.String("category", p.Category),
			zap.Int("stock", p.Stock))
	}

	a.finishScheduler(sched, "success", fmt.Sprintf("%d product(s) at or below stock %d", len(products), threshold))
}

// runSalesSummaryScheduler logs sale count and revenue for the summary window
func (a *Application) runSalesSummaryScheduler(sched *domain.StoreScheduler) {
	hours := a.GetSettingsInt64Value("store", "sales_summary_hours")
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var summary struct {
		Count   int64
		Revenue decimal.Decimal
	}
	err := a.gormDB.Model(&domain.Sale{}).
		Select("COUNT(*) as count, COALESCE(SUM(total_price), 0) as revenue").
		Where("date >= ?", since).
		Scan(&summary).Error
	if err != nil {
		a.finishScheduler(sched, "failed", err.Error())
		return
	}

	msg := fmt.Sprintf("%d sale(s), revenue %s over last %dh", summary.Count, summary.Revenue.StringFixed(2), hours)
	zap.L().Info("sales summary", zap.String("summary", msg))
	a.finishScheduler(sched, "success", msg)
}

func (a *Application) finishScheduler(sched *domain.StoreScheduler, result, message string) {
	a.gormDB.Model(&domain.StoreScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})
}
