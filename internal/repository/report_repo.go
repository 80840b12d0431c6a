package repository

import (
	"context"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) (string, error)
	List(ctx context.Context) ([]entity.Report, error)
	SetStatus(ctx context.Context, reportID string, status entity.ReportStatus) (*entity.Report, error)
	CountByStatus(ctx context.Context, status entity.ReportStatus) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
