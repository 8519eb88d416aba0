package ingest

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
	"github.com/sellerdesk/reconcile-backend/pkg/redis"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UploadSummary reports the outcome of one file upload back to the
// operator: everything stored plus every row that was skipped and why.
type UploadSummary struct {
	Platform      enums.Platform `json:"platform"`
	AccountName   string         `json:"account_name,omitempty"`
	RowsParsed    int            `json:"rows_parsed"`
	RowsStored    int            `json:"rows_stored"`
	RowsDuplicate int            `json:"rows_duplicate,omitempty"`
	RowErrors     []RowError     `json:"row_errors,omitempty"`
}

// Service ingests marketplace export files.
type Service interface {
	UploadOrders(ctx context.Context, filename string, file io.Reader) (*UploadSummary, error)
	UploadCollections(ctx context.Context, filename string, file io.Reader) (*UploadSummary, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	cache *redis.Client
	logg  *logger.Logger
}

// NewService builds an ingest service with the required dependencies.
// The cache client may be nil when redis is disabled.
func NewService(repo Repository, tx txRunner, cache *redis.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingest repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cache: cache, logg: logg}, nil
}

func (s *service) UploadOrders(ctx context.Context, filename string, file io.Reader) (*UploadSummary, error) {
	parsed, err := ParseOrders(filename, file)
	if err != nil {
		return nil, err
	}
	if len(parsed.Orders) == 0 && len(parsed.Errors) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file contains no data rows").
			WithDetails(map[string]any{"filename": filename})
	}

	var stored int
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).UpsertOrders(ctx, parsed.Orders)
		if err != nil {
			return err
		}
		stored = n
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing orders")
	}

	s.invalidateStats(ctx)
	if s.logg != nil {
		lctx := s.logg.WithUpload(s.logg.WithPlatform(ctx, parsed.Platform.String()), filename)
		s.logg.Info(lctx, fmt.Sprintf("order upload stored %d rows, %d rejected", stored, len(parsed.Errors)))
	}

	return &UploadSummary{
		Platform:      parsed.Platform,
		AccountName:   parsed.AccountName,
		RowsParsed:    len(parsed.Orders) + len(parsed.Errors),
		RowsStored:    stored,
		RowsDuplicate: len(parsed.Orders) - stored,
		RowErrors:     parsed.Errors,
	}, nil
}

func (s *service) UploadCollections(ctx context.Context, filename string, file io.Reader) (*UploadSummary, error) {
	parsed, err := ParseCollections(filename, file)
	if err != nil {
		return nil, err
	}
	if len(parsed.Collections) == 0 && len(parsed.Errors) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file contains no data rows").
			WithDetails(map[string]any{"filename": filename})
	}

	var stored int
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).InsertCollections(ctx, parsed.Collections)
		if err != nil {
			return err
		}
		stored = n
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing collections")
	}

	s.invalidateStats(ctx)
	if s.logg != nil {
		lctx := s.logg.WithUpload(s.logg.WithPlatform(ctx, parsed.Platform.String()), filename)
		s.logg.Info(lctx, fmt.Sprintf("collection upload stored %d rows, %d rejected", stored, len(parsed.Errors)))
	}

	return &UploadSummary{
		Platform:      parsed.Platform,
		RowsParsed:    len(parsed.Collections) + len(parsed.Errors),
		RowsStored:    stored,
		RowsDuplicate: len(parsed.Collections) - stored,
		RowErrors:     parsed.Errors,
	}, nil
}

func (s *service) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateCache(ctx, s.cache.CacheKey("stats")); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "stats cache invalidation failed")
	}
}
