package woocommerce

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// wcTimeLayout is the timestamp format used by the WooCommerce REST API.
// Values carry no timezone suffix and are interpreted as UTC.
const wcTimeLayout = "2006-01-02T15:04:05"

// Amount wraps a decimal value that WooCommerce may serialize as a JSON
// string, a bare number, or null.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON accepts "12.34", 12.34 and null, all mapping to a decimal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		a.Decimal = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("woocommerce: invalid amount %q: %w", s, err)
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("woocommerce: invalid amount %s: %w", data, err)
	}
	a.Decimal = d
	return nil
}

// MarshalJSON emits the amount as a JSON string, matching the API's own form.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Decimal.String())
}

// WCTime wraps a timestamp in the WooCommerce wire format.
type WCTime struct {
	time.Time
}

// UnmarshalJSON parses "2006-01-02T15:04:05" values, treating null and empty
// strings as the zero time.
func (t *WCTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(wcTimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("woocommerce: invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON emits the timestamp in the WooCommerce wire format.
func (t WCTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(wcTimeLayout))
}

// AddressBlock is a billing or shipping block from an order payload. The
// named fields cover what reconciliation needs; Raw preserves the full block
// for storage.
type AddressBlock struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Raw       json.RawMessage
}

// addressBlockAlias avoids recursing into UnmarshalJSON when decoding the
// named fields.
type addressBlockAlias AddressBlock

func (b *AddressBlock) UnmarshalJSON(data []byte) error {
	var alias addressBlockAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*b = AddressBlock(alias)
	b.Raw = append(b.Raw[:0], data...)
	return nil
}

// IsEmpty reports whether the block was absent or carried no content.
func (b *AddressBlock) IsEmpty() bool {
	return len(b.Raw) == 0 || bytes.Equal(bytes.TrimSpace(b.Raw), []byte("{}"))
}

// LineItem is a purchased product line on an order.
type LineItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Total     Amount `json:"total"`
}

// ShippingLine is a shipping method applied to an order.
type ShippingLine struct {
	ID          int64  `json:"id"`
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       Amount `json:"total"`
}

// CouponLine is a coupon applied to an order.
type CouponLine struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Discount Amount `json:"discount"`
}

// TaxLine is a tax entry on an order. WooCommerce may omit any of the
// fields, in which case they decode to their zero values.
type TaxLine struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Total Amount `json:"total"`
	Rate  Amount `json:"rate"`
}

// Refund is a refund summary embedded in an order payload.
type Refund struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
	Amount Amount `json:"amount"`
}

// Order is a WooCommerce order as returned by GET /orders.
type Order struct {
	ID                 int64          `json:"id"`
	Number             string         `json:"number"`
	Status             string         `json:"status"`
	Currency           string         `json:"currency"`
	Total              Amount         `json:"total"`
	DateCreated        WCTime         `json:"date_created"`
	DateModified       WCTime         `json:"date_modified"`
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	Billing            AddressBlock   `json:"billing"`
	Shipping           AddressBlock   `json:"shipping"`
	LineItems          []LineItem     `json:"line_items"`
	ShippingLines      []ShippingLine `json:"shipping_lines"`
	CouponLines        []CouponLine   `json:"coupon_lines"`
	TaxLines           []TaxLine      `json:"tax_lines"`
	Refunds            []Refund       `json:"refunds"`
}

// RefundTotal sums the refund amounts on the order. Orders without refunds
// yield zero.
func (o *Order) RefundTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range o.Refunds {
		total = total.Add(r.Amount.Decimal)
	}
	return total
}
