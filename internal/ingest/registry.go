package ingest

import (
	"regexp"
	"strings"

	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
)

// orderColumns maps each normalized order field to the source column
// names a platform is known to use. Only OrderNumber is required; every
// other field degrades to zero/empty when its column is missing.
type orderColumns struct {
	OrderNumber     []string
	TrackingID      []string
	OrderDate       []string
	ProductTotal    []string
	ShippingCharged []string
	Quantity        []string
	Status          []string
}

// collectionColumns maps the normalized collection fields. TrackingID is
// the required join key; Fee, when present, is deducted from the gross
// amount to yield the net remitted figure.
type collectionColumns struct {
	TrackingID []string
	Amount     []string
	Fee        []string
	Date       []string
}

// platformSpec is one registry entry: a detection predicate over the file
// name plus the platform's column maps. Adding a marketplace is adding an
// entry here, not a branch anywhere else.
type platformSpec struct {
	Platform    enums.Platform
	Tokens      []string
	Orders      orderColumns
	Collections collectionColumns
}

// registry is ordered: the first entry whose token appears in the file
// name wins, which keeps detection deterministic when names carry more
// than one tag.
var registry = []platformSpec{
	{
		Platform: enums.PlatformAmazon,
		Tokens:   []string{"amazon", "امازون", "أمازون"},
		Orders: orderColumns{
			OrderNumber:     []string{"amazon order id", "order id", "رقم الطلب"},
			TrackingID:      []string{"tracking id", "tracking number", "رقم التتبع"},
			OrderDate:       []string{"purchase date", "order date", "التاريخ"},
			ProductTotal:    []string{"item price", "product charges", "رسوم المنتج", "الإجمالي"},
			ShippingCharged: []string{"shipping price", "shipping charge", "رسوم الشحن"},
			Quantity:        []string{"quantity", "الكمية"},
			Status:          []string{"order status", "الحالة"},
		},
		Collections: collectionColumns{
			TrackingID: []string{"tracking id", "tracking number", "رقم التتبع"},
			Amount:     []string{"total", "الإجمالي"},
			Date:       []string{"date", "التاريخ"},
		},
	},
	{
		Platform: enums.PlatformNoon,
		Tokens:   []string{"noon", "نون"},
		Orders: orderColumns{
			OrderNumber:     []string{"order_nr", "order nr"},
			TrackingID:      []string{"awb_nr", "awb", "tracking number"},
			OrderDate:       []string{"order_received_at", "ordered_date", "date"},
			ProductTotal:    []string{"total_price", "price"},
			ShippingCharged: []string{"shipping_fee", "delivery_fee"},
			Quantity:        []string{"quantity"},
			Status:          []string{"order_status", "item_status"},
		},
		Collections: collectionColumns{
			TrackingID: []string{"awb_nr", "awb", "order_nr"},
			Amount:     []string{"total_payment", "payment", "amount"},
			Date:       []string{"statement_date", "date"},
		},
	},
	{
		Platform: enums.PlatformTrendyol,
		Tokens:   []string{"trendyol", "ترنديول"},
		Orders: orderColumns{
			OrderNumber:     []string{"order number", "sipariş numarası"},
			TrackingID:      []string{"cargo tracking number", "tracking number", "kargo takip"},
			OrderDate:       []string{"order date", "sipariş tarihi"},
			ProductTotal:    []string{"sales amount", "gross amount", "credit"},
			ShippingCharged: []string{"shipping", "cargo fee", "kargo"},
			Quantity:        []string{"quantity", "adet"},
			Status:          []string{"transaction type", "status"},
		},
		Collections: collectionColumns{
			TrackingID: []string{"cargo tracking number", "tracking number", "order number"},
			Amount:     []string{"credit", "amount"},
			Date:       []string{"payment date", "settlement date"},
		},
	},
	{
		Platform: enums.PlatformIlasouq,
		Tokens:   []string{"ilasouq", "ilasoq"},
		Orders: orderColumns{
			OrderNumber:     []string{"رقم الطلب", "order id"},
			TrackingID:      []string{"رقم البوليصة", "بوليصة", "tracking"},
			OrderDate:       []string{"تاريخ الطلب", "order date"},
			ProductTotal:    []string{"إجمالي الطلب", "order total"},
			ShippingCharged: []string{"تكلفة الشحن", "shipping cost"},
			Quantity:        []string{"الكمية", "quantity"},
			Status:          []string{"حالة الطلب", "order status"},
		},
		Collections: collectionColumns{
			TrackingID: []string{"رقم البوليصة", "بوليصة", "tracking", "رقم الطلب"},
			Amount:     []string{"الإجمالي بعد الضريبة", "إجمالي الطلب", "amount"},
			Date:       []string{"تاريخ التحويل", "تاريخ"},
		},
	},
	{
		Platform: enums.PlatformTabby,
		Tokens:   []string{"tabby", "تابي"},
		Orders: orderColumns{
			OrderNumber:     []string{"order number", "order id"},
			TrackingID:      []string{"tracking number", "reference"},
			OrderDate:       []string{"order date"},
			ProductTotal:    []string{"order amount"},
			ShippingCharged: []string{"shipping"},
			Quantity:        []string{"quantity"},
			Status:          []string{"type", "status"},
		},
		Collections: collectionColumns{
			TrackingID: []string{"tracking number", "order number", "reference"},
			Amount:     []string{"transferred amount", "transfer amount"},
			Fee:        []string{"total deduction", "total fee"},
			Date:       []string{"transfer date"},
		},
	},
	{
		Platform: enums.PlatformSMSA,
		Tokens:   []string{"smsa", "سمسا"},
		Orders: orderColumns{
			OrderNumber:     []string{"reference", "ref no", "order id"},
			TrackingID:      []string{"awb", "ref no", "tracking"},
			OrderDate:       []string{"pickup date", "date"},
			ProductTotal:    []string{"cod amount", "amount"},
			ShippingCharged: []string{"shipping"},
			Quantity:        []string{"pieces", "quantity"},
			Status:          []string{"status"},
		},
		Collections: collectionColumns{
			TrackingID: []string{"ref no", "ref_no", "awb"},
			Amount:     []string{"cod amount"},
			Fee:        []string{"cod charges", "cod charge"},
			Date:       []string{"payment date"},
		},
	},
}

// DetectPlatform identifies the marketplace from the file name by
// case-insensitive substring match in registry priority order. An
// unmatched file is rejected wholesale.
func DetectPlatform(filename string) (enums.Platform, error) {
	lower := strings.ToLower(filename)
	for _, spec := range registry {
		for _, token := range spec.Tokens {
			if strings.Contains(lower, token) {
				return spec.Platform, nil
			}
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeUnknownPlatform, "no platform tag matched file name").
		WithDetails(map[string]any{"filename": filename})
}

func specFor(platform enums.Platform) (platformSpec, bool) {
	for _, spec := range registry {
		if spec.Platform == platform {
			return spec, true
		}
	}
	return platformSpec{}, false
}

var accountBracketPattern = regexp.MustCompile(`\[(.*?)\]`)

// DetectAccountName extracts the seller-account tag from the file name,
// e.g. "orders-noon-[MainStore].xlsx" -> "MainStore".
func DetectAccountName(filename string) string {
	if match := accountBracketPattern.FindStringSubmatch(filename); len(match) == 2 {
		return strings.TrimSpace(match[1])
	}
	return ""
}
