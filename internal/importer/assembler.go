package importer

import (
	"github.com/ordersight/backend-go/internal/domain"
)

// HeaderMapping is the resolved canonical field name per column index,
// computed once per file so the normalizer runs once per header, not per cell.
type HeaderMapping []string

// MapHeaders normalizes every raw header in row 1 of the input.
func MapHeaders(headers []string) HeaderMapping {
	mapped := make(HeaderMapping, len(headers))
	for i, h := range headers {
		mapped[i] = NormalizeHeader(h)
	}
	return mapped
}

// AssembleRecord turns one raw data row into a canonical order record. It is
// total: unparsable cells become nil fields, unknown columns are ignored, and
// a missing order_date is left for the store to reject. Quantity defaults to 1
// when absent or unparsable.
func AssembleRecord(mapping HeaderMapping, row []string) domain.OrderRecord {
	rec := domain.OrderRecord{Quantity: 1}

	for i, field := range mapping {
		if i >= len(row) || field == "" {
			continue
		}
		raw := row[i]

		switch field {
		case FieldOrderID:
			rec.OrderID = CoerceString(raw)
		case FieldChannelOrderID:
			rec.ChannelOrderID = CoerceString(raw)
		case FieldOrderDate:
			rec.OrderDate = CoerceDate(raw)
		case FieldChannelOrderDate:
			rec.ChannelOrderDate = CoerceDate(raw)
		case FieldAddedOn:
			rec.AddedOn = CoerceDate(raw)
		case FieldDeliveredDate:
			rec.DeliveredDate = CoerceDate(raw)
		case FieldRTSDate:
			rec.RTSDate = CoerceDate(raw)
		case FieldOrderStatus:
			rec.OrderStatus = CoerceString(raw)
		case FieldPaymentMethod:
			rec.PaymentMethod = CoerceString(raw)
		case FieldFulfillmentPartner:
			rec.FulfillmentPartner = CoerceString(raw)
		case FieldChannel:
			rec.Channel = CoerceString(raw)
		case FieldProductName:
			rec.ProductName = CoerceString(raw)
		case FieldSKU:
			rec.SKU = CoerceString(raw)
		case FieldQuantity:
			if qty := CoerceInt(raw); qty != nil && *qty > 0 {
				rec.Quantity = *qty
			}
		case FieldOrderValue:
			rec.OrderValue = CoerceDecimal(raw)
		case FieldProductValue:
			rec.ProductValue = CoerceDecimal(raw)
		case FieldExtraCharges:
			rec.ExtraCharges = CoerceDecimal(raw)
		case FieldShippingCharges:
			rec.ShippingCharges = CoerceDecimal(raw)
		case FieldDiscount:
			rec.Discount = CoerceDecimal(raw)
		case FieldTotalAmount:
			rec.TotalAmount = CoerceDecimal(raw)
		case FieldCODAmount:
			rec.CODAmount = CoerceDecimal(raw)
		case FieldWeight:
			rec.Weight = CoerceDecimal(raw)
		case FieldAWBNumber:
			rec.AWBNumber = CoerceString(raw)
		case FieldPincode:
			rec.Pincode = coercePincode(raw)
		case FieldCity:
			rec.City = CoerceString(raw)
		case FieldState:
			rec.State = CoerceString(raw)
		case FieldCountry:
			rec.Country = CoerceString(raw)
		case FieldZone:
			rec.Zone = CoerceString(raw)
		case FieldAddress:
			rec.Address = CoerceString(raw)
		case FieldConsigneeName:
			rec.ConsigneeName = CoerceString(raw)
		case FieldPhone:
			rec.Phone = CoerceString(raw)
		case FieldAlternatePhone:
			rec.AlternatePhone = CoerceString(raw)
		case FieldEmail:
			rec.Email = CoerceString(raw)
		case FieldTags:
			rec.Tags = CoerceString(raw)
		}
	}

	return rec
}

// AssembleAll maps every data row. Rows are never rejected here; storage is
// where a missing order_date surfaces.
func AssembleAll(headers []string, rows [][]string) []domain.OrderRecord {
	mapping := MapHeaders(headers)
	records := make([]domain.OrderRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, AssembleRecord(mapping, row))
	}
	return records
}

// coercePincode keeps pincodes as strings but strips the ".0" float rendering
// spreadsheets attach to numeric cells.
func coercePincode(raw string) *string {
	s := CoerceString(raw)
	if s == nil {
		return nil
	}
	v := *s
	if idx := len(v) - 2; idx > 0 && v[idx:] == ".0" {
		v = v[:idx]
		return &v
	}
	return s
}
