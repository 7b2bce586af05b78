package builtin

import (
	"github.com/playlytics/kpiengine/pkg/report"
)

// RegisterReports registers all built-in report types with the factory.
func RegisterReports() {
	report.RegisterType(TypeRetentionByCohort, func(config report.Config) (report.Report, error) {
		return NewRetentionByCohortReport(config), nil
	})

	report.RegisterType(TypeRetentionQuality, func(config report.Config) (report.Report, error) {
		return NewRetentionQualityReport(config)
	})

	report.RegisterType(TypeRevenueCorrelation, func(config report.Config) (report.Report, error) {
		return NewRevenueCorrelationReport(config)
	})

	report.RegisterType(TypeChurnRisk, func(config report.Config) (report.Report, error) {
		return NewChurnRiskReport(config), nil
	})
}
