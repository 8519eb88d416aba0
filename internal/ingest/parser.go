package ingest

import (
	"fmt"
	"io"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
)

// headerScanDepth bounds how far down the sheet we look for the header
// row. Tabby statements carry a ten-row summary preamble, which is the
// deepest observed so far.
const headerScanDepth = 15

// RowError records one rejected source row. Row numbers are 1-based
// positions in the original file so the operator can open the sheet and
// find the offending line.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// OrderParseResult is the outcome of parsing one order export. Rows that
// fail to normalize land in Errors; the rest of the file still goes
// through.
type OrderParseResult struct {
	Platform    enums.Platform
	AccountName string
	Orders      []models.Order
	Errors      []RowError
}

// CollectionParseResult is the outcome of parsing one collection export.
type CollectionParseResult struct {
	Platform    enums.Platform
	Collections []models.Collection
	Errors      []RowError
}

// ParseOrders detects the platform from the file name, locates the header
// row, and normalizes every data row into an Order. A file with no
// matching platform or no recognizable header fails wholesale; individual
// bad rows do not.
func ParseOrders(filename string, r io.Reader) (*OrderParseResult, error) {
	platform, err := DetectPlatform(filename)
	if err != nil {
		return nil, err
	}
	spec, _ := specFor(platform)

	rows, err := readRows(filename, r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read uploaded file")
	}

	headerIdx := findHeaderRow(rows, spec.Orders.OrderNumber, headerScanDepth)
	if headerIdx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number column not found").
			WithDetails(map[string]any{"platform": platform.String(), "filename": filename})
	}
	headers := rows[headerIdx]

	cols := struct {
		orderNumber, trackingID, orderDate, productTotal, shipping, quantity, status int
	}{
		orderNumber:  findColumn(headers, spec.Orders.OrderNumber),
		trackingID:   findColumn(headers, spec.Orders.TrackingID),
		orderDate:    findColumn(headers, spec.Orders.OrderDate),
		productTotal: findColumn(headers, spec.Orders.ProductTotal),
		shipping:     findColumn(headers, spec.Orders.ShippingCharged),
		quantity:     findColumn(headers, spec.Orders.Quantity),
		status:       findColumn(headers, spec.Orders.Status),
	}

	result := &OrderParseResult{
		Platform:    platform,
		AccountName: DetectAccountName(filename),
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1
		if isBlankRow(row) {
			continue
		}

		orderNumber := cleanIdentifier(cell(row, cols.orderNumber))
		if orderNumber == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: "missing order number"})
			continue
		}

		productTotal, err := parseMoney(cell(row, cols.productTotal))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid product total: %v", err)})
			continue
		}
		shipping, err := parseMoney(cell(row, cols.shipping))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid shipping amount: %v", err)})
			continue
		}

		result.Orders = append(result.Orders, models.Order{
			Platform:        platform,
			OrderNumber:     orderNumber,
			TrackingID:      cleanIdentifier(cell(row, cols.trackingID)),
			AccountName:     result.AccountName,
			OrderDate:       parseDate(cell(row, cols.orderDate)),
			ProductTotal:    productTotal,
			ShippingCharged: shipping,
			Quantity:        parseQuantity(cell(row, cols.quantity)),
			Status:          normalizeStatus(cell(row, cols.status)),
		})
	}

	return result, nil
}

// ParseCollections normalizes a settlement export into Collection rows.
// Platforms that itemize fees (Tabby, SMSA) have the fee deducted so the
// stored amount is what actually reached the seller.
func ParseCollections(filename string, r io.Reader) (*CollectionParseResult, error) {
	platform, err := DetectPlatform(filename)
	if err != nil {
		return nil, err
	}
	spec, _ := specFor(platform)

	rows, err := readRows(filename, r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read uploaded file")
	}

	headerIdx := findHeaderRow(rows, spec.Collections.TrackingID, headerScanDepth)
	if headerIdx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking id column not found").
			WithDetails(map[string]any{"platform": platform.String(), "filename": filename})
	}
	headers := rows[headerIdx]

	trackingCol := findColumn(headers, spec.Collections.TrackingID)
	amountCol := findColumn(headers, spec.Collections.Amount)
	feeCol := -1
	if len(spec.Collections.Fee) > 0 {
		feeCol = findColumn(headers, spec.Collections.Fee)
	}
	dateCol := findColumn(headers, spec.Collections.Date)

	result := &CollectionParseResult{Platform: platform}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1
		if isBlankRow(row) {
			continue
		}

		trackingID := cleanIdentifier(cell(row, trackingCol))
		if trackingID == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: "missing tracking id"})
			continue
		}

		amount, err := parseMoney(cell(row, amountCol))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid amount: %v", err)})
			continue
		}
		if feeCol >= 0 {
			fee, err := parseMoney(cell(row, feeCol))
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid fee: %v", err)})
				continue
			}
			amount = amount.Sub(fee)
		}

		result.Collections = append(result.Collections, models.Collection{
			Platform:        platform,
			TrackingID:      trackingID,
			AmountCollected: amount,
			CollectionDate:  parseDate(cell(row, dateCol)),
		})
	}

	return result, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
