package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/internal/ingest"
	"github.com/sellerdesk/reconcile-backend/pkg/config"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

// UploadOrders accepts a marketplace order export as multipart form data
// under the "file" field. The platform is detected from the file name.
func UploadOrders(svc ingest.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filename, file, err := formFile(r, cfg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		defer file.Close()

		summary, err := svc.UploadOrders(ctx, filename, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// UploadCollections accepts a settlement export the same way.
func UploadCollections(svc ingest.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filename, file, err := formFile(r, cfg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		defer file.Close()

		summary, err := svc.UploadCollections(ctx, filename, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func formFile(r *http.Request, cfg *config.Config) (string, multipart.File, error) {
	maxBytes := int64(cfg.Files.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not parse upload form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required")
	}
	return header.Filename, file, nil
}
