package importer

import "strings"

// Canonical field names produced by the header normalizer. The set is closed;
// anything outside it degrades to a snake-cased slug of the raw header, which
// downstream consumers ignore.
const (
	FieldOrderID            = "order_id"
	FieldChannelOrderID     = "channel_order_id"
	FieldOrderDate          = "order_date"
	FieldChannelOrderDate   = "channel_order_date"
	FieldAddedOn            = "added_on"
	FieldDeliveredDate      = "delivered_date"
	FieldRTSDate            = "rts_date"
	FieldOrderStatus        = "order_status"
	FieldPaymentMethod      = "payment_method"
	FieldFulfillmentPartner = "fulfillment_partner"
	FieldChannel            = "channel"
	FieldProductName        = "product_name"
	FieldSKU                = "sku"
	FieldQuantity           = "quantity"
	FieldOrderValue         = "order_value"
	FieldProductValue       = "product_value"
	FieldExtraCharges       = "extra_charges"
	FieldShippingCharges    = "shipping_charges"
	FieldDiscount           = "discount"
	FieldTotalAmount        = "total_amount"
	FieldCODAmount          = "cod_amount"
	FieldWeight             = "weight"
	FieldAWBNumber          = "awb_number"
	FieldPincode            = "pincode"
	FieldCity               = "city"
	FieldState              = "state"
	FieldCountry            = "country"
	FieldZone               = "zone"
	FieldAddress            = "address"
	FieldConsigneeName      = "consignee_name"
	FieldPhone              = "phone"
	FieldAlternatePhone     = "alternate_phone"
	FieldEmail              = "email"
	FieldTags               = "tags"
)

// Value types a canonical field coerces to.
type ValueType int

const (
	TypeString ValueType = iota
	TypeDate
	TypeDecimal
	TypeInteger
)

var fieldTypes = map[string]ValueType{
	FieldOrderDate:        TypeDate,
	FieldChannelOrderDate: TypeDate,
	FieldAddedOn:          TypeDate,
	FieldDeliveredDate:    TypeDate,
	FieldRTSDate:          TypeDate,
	FieldQuantity:         TypeInteger,
	FieldOrderValue:       TypeDecimal,
	FieldProductValue:     TypeDecimal,
	FieldExtraCharges:     TypeDecimal,
	FieldShippingCharges:  TypeDecimal,
	FieldDiscount:         TypeDecimal,
	FieldTotalAmount:      TypeDecimal,
	FieldCODAmount:        TypeDecimal,
	FieldWeight:           TypeDecimal,
}

// FieldType returns the semantic type a canonical field coerces to. Unknown
// (slugged) fields coerce as plain strings.
func FieldType(field string) ValueType {
	if t, ok := fieldTypes[field]; ok {
		return t
	}
	return TypeString
}

// exactHeaders covers the header vocabulary of the expected export formats.
// Keys are case-folded and trimmed before lookup.
var exactHeaders = map[string]string{
	"order id":           FieldOrderID,
	"order no":           FieldOrderID,
	"order no.":          FieldOrderID,
	"order number":       FieldOrderID,
	"reference no":       FieldOrderID,
	"channel order id":   FieldChannelOrderID,
	"channel order no":   FieldChannelOrderID,
	"suborder id":        FieldChannelOrderID,
	"order date":         FieldOrderDate,
	"order created at":   FieldOrderDate,
	"channel order date": FieldChannelOrderDate,
	"channel created at": FieldChannelOrderDate,
	"added on":           FieldAddedOn,
	"created at":         FieldAddedOn,
	"delivered date":     FieldDeliveredDate,
	"delivery date":      FieldDeliveredDate,
	"rts date":           FieldRTSDate,
	"rts done date":      FieldRTSDate,
	"status":             FieldOrderStatus,
	"order status":       FieldOrderStatus,
	"shipment status":    FieldOrderStatus,
	"current status":     FieldOrderStatus,
	"payment method":     FieldPaymentMethod,
	"payment mode":       FieldPaymentMethod,
	"payment type":       FieldPaymentMethod,
	"courier":            FieldFulfillmentPartner,
	"courier company":    FieldFulfillmentPartner,
	"courier partner":    FieldFulfillmentPartner,
	"shipping partner":   FieldFulfillmentPartner,
	"carrier":            FieldFulfillmentPartner,
	"channel":            FieldChannel,
	"channel name":       FieldChannel,
	"store":              FieldChannel,
	"product name":       FieldProductName,
	"product":            FieldProductName,
	"item name":          FieldProductName,
	"sku":                FieldSKU,
	"sku code":           FieldSKU,
	"master sku":         FieldSKU,
	"qty":                FieldQuantity,
	"quantity":           FieldQuantity,
	"product qty":        FieldQuantity,
	"item qty":           FieldQuantity,
	"order value":        FieldOrderValue,
	"order amount":       FieldOrderValue,
	"invoice value":      FieldOrderValue,
	"product value":      FieldProductValue,
	"product price":      FieldProductValue,
	"unit price":         FieldProductValue,
	"extra charges":      FieldExtraCharges,
	"other charges":      FieldExtraCharges,
	"shipping charges":   FieldShippingCharges,
	"freight charges":    FieldShippingCharges,
	"discount":           FieldDiscount,
	"discount value":     FieldDiscount,
	"total amount":       FieldTotalAmount,
	"total":              FieldTotalAmount,
	"grand total":        FieldTotalAmount,
	"cod amount":         FieldCODAmount,
	"cod value":          FieldCODAmount,
	"collectable amount": FieldCODAmount,
	"weight":             FieldWeight,
	"weight (kg)":        FieldWeight,
	"dead weight":        FieldWeight,
	"awb":                FieldAWBNumber,
	"awb no":             FieldAWBNumber,
	"awb number":         FieldAWBNumber,
	"tracking id":        FieldAWBNumber,
	"tracking number":    FieldAWBNumber,
	"pincode":            FieldPincode,
	"pin code":           FieldPincode,
	"zip":                FieldPincode,
	"zip code":           FieldPincode,
	"postal code":        FieldPincode,
	"city":               FieldCity,
	"state":              FieldState,
	"country":            FieldCountry,
	"zone":               FieldZone,
	"address":            FieldAddress,
	"customer address":   FieldAddress,
	"shipping address":   FieldAddress,
	"customer name":      FieldConsigneeName,
	"consignee name":     FieldConsigneeName,
	"buyer name":         FieldConsigneeName,
	"name":               FieldConsigneeName,
	"phone":              FieldPhone,
	"mobile":             FieldPhone,
	"contact no":         FieldPhone,
	"customer phone":     FieldPhone,
	"alternate phone":    FieldAlternatePhone,
	"alt phone":          FieldAlternatePhone,
	"email":              FieldEmail,
	"customer email":     FieldEmail,
	"tags":               FieldTags,
	"order tags":         FieldTags,
}

type headerRule struct {
	field string
	match func(h string) bool
}

func hasAll(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, sub := range subs {
			if !strings.Contains(h, sub) {
				return false
			}
		}
		return true
	}
}

func hasAnyOf(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, sub := range subs {
			if strings.Contains(h, sub) {
				return true
			}
		}
		return false
	}
}

func and(fns ...func(string) bool) func(string) bool {
	return func(h string) bool {
		for _, fn := range fns {
			if !fn(h) {
				return false
			}
		}
		return true
	}
}

func not(fn func(string) bool) func(string) bool {
	return func(h string) bool { return !fn(h) }
}

// headerRules are the keyword fallbacks, evaluated in order after the exact
// table misses. Narrower rules sit above broader ones: "product qty" must
// resolve to quantity, never product_name.
var headerRules = []headerRule{
	{FieldQuantity, hasAnyOf("qty", "quantity")},
	{FieldCODAmount, hasAll("cod")},
	{FieldTotalAmount, and(hasAll("total"), hasAnyOf("amount", "value", "price"))},
	{FieldProductValue, and(hasAll("product"), hasAnyOf("value", "price", "amount"))},
	{FieldOrderValue, and(hasAll("order"), hasAnyOf("value", "amount"))},
	{FieldShippingCharges, and(hasAnyOf("shipping", "freight"), hasAnyOf("charge", "cost", "fee"))},
	{FieldExtraCharges, hasAll("charge")},
	{FieldDiscount, hasAll("discount")},
	{FieldProductName, and(hasAll("product"), not(hasAnyOf("qty", "amount", "value", "price")))},
	{FieldSKU, hasAll("sku")},
	{FieldDeliveredDate, and(hasAnyOf("delivered", "delivery"), hasAll("date"))},
	{FieldRTSDate, and(hasAll("rts"), hasAll("date"))},
	{FieldChannelOrderDate, and(hasAll("channel"), hasAll("date"))},
	{FieldOrderDate, and(hasAll("order"), hasAll("date"))},
	{FieldAddedOn, hasAnyOf("added on", "added_on", "upload date")},
	{FieldOrderStatus, hasAll("status")},
	{FieldPaymentMethod, hasAll("payment")},
	{FieldAWBNumber, hasAnyOf("awb", "tracking")},
	{FieldFulfillmentPartner, hasAnyOf("courier", "carrier", "fulfillment", "logistics")},
	{FieldPincode, hasAnyOf("pincode", "pin code", "zipcode", "zip", "postal")},
	{FieldAlternatePhone, and(hasAnyOf("alternate", "alt "), hasAnyOf("phone", "mobile"))},
	{FieldPhone, hasAnyOf("phone", "mobile", "contact")},
	{FieldEmail, hasAll("email")},
	{FieldAddress, hasAll("address")},
	{FieldConsigneeName, and(hasAnyOf("customer", "consignee", "buyer"), hasAll("name"))},
	{FieldCity, hasAll("city")},
	{FieldState, hasAll("state")},
	{FieldCountry, hasAll("country")},
	{FieldZone, hasAll("zone")},
	{FieldChannelOrderID, and(hasAll("channel"), hasAnyOf("order id", "order no"))},
	{FieldChannel, hasAll("channel")},
	{FieldTags, hasAll("tag")},
	{FieldOrderID, hasAnyOf("order id", "order no", "order number")},
}

// NormalizeHeader maps an arbitrary column header to a canonical field name.
// Exact matches are tried first, then the keyword rules; anything left over
// becomes a snake-cased slug. It never fails.
func NormalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	if h == "" {
		return ""
	}

	if field, ok := exactHeaders[h]; ok {
		return field
	}

	for _, rule := range headerRules {
		if rule.match(h) {
			return rule.field
		}
	}

	return Slug(raw)
}

// Slug converts a header to a snake_case identifier: lower-cased, with runs of
// non-alphanumeric characters collapsed into single underscores.
func Slug(raw string) string {
	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
