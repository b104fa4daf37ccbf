package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"library-management/backend/internal/dto"
)

// SalaryRecomputeJobName labels the payroll job in metrics.
const SalaryRecomputeJobName = "salary_recompute"

// SalaryCalculator is the payroll operation the job drives.
type SalaryCalculator interface {
	Calculate(ctx context.Context, month string) (*dto.SalaryCalculationResponse, error)
}

// SalaryRecompute refreshes the current month's payroll as seen in loc.
func SalaryRecompute(calc SalaryCalculator, loc *time.Location, now func() time.Time, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		month := now().In(loc).Format("2006-01")
		res, err := calc.Calculate(ctx, month)
		if err != nil {
			return err
		}
		logger.Info("salary recompute finished", zap.String("month", month), zap.Int("staff", len(res.Records)))
		return nil
	}
}
