package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sellerdesk/reconcile-backend/pkg/db"
	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

const defaultListLimit = 50

// ScanResult is the outcome of registering one return scan. A duplicate
// is a normal answer, not an error; it carries the timestamp of the
// original scan so the operator sees when the parcel first came in.
type ScanResult struct {
	Outcome    enums.ScanOutcome `json:"outcome"`
	TrackingID string            `json:"tracking_id"`
	ScannedAt  time.Time         `json:"scanned_at"`
}

// Service is the warehouse return-intake register.
type Service interface {
	AddScan(ctx context.Context, trackingID string) (*ScanResult, error)
	List(ctx context.Context, limit int) ([]models.ReturnScan, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a returns service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("returns repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// AddScan registers a scanned tracking id. The unique index arbitrates
// concurrent scans of the same parcel: the loser of the race reads back
// the winner's row and reports a duplicate.
func (s *service) AddScan(ctx context.Context, trackingID string) (*ScanResult, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking id is required")
	}

	scan := &models.ReturnScan{
		TrackingID: trackingID,
		ScannedAt:  s.now().UTC(),
	}
	err := s.repo.Insert(ctx, scan)
	if err == nil {
		return &ScanResult{
			Outcome:    enums.ScanOutcomeInserted,
			TrackingID: trackingID,
			ScannedAt:  scan.ScannedAt,
		}, nil
	}

	if !db.IsUniqueViolation(err, "idx_return_scans_tracking") {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registering return scan")
	}

	existing, findErr := s.repo.FindByTracking(ctx, trackingID)
	if findErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading original return scan")
	}
	return &ScanResult{
		Outcome:    enums.ScanOutcomeDuplicate,
		TrackingID: trackingID,
		ScannedAt:  existing.ScannedAt,
	}, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.ReturnScan, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	scans, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing return scans")
	}
	return scans, nil
}
