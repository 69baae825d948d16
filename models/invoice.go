package models

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// InvoiceSnapshot is the fully priced order handed to rendering. All
// amounts are already converted into the display currency and rounded;
// renderers do no arithmetic beyond formatting.
type InvoiceSnapshot struct {
	OrderNo       int64        `json:"order_no"`
	OrderDate     string       `json:"order_date"`
	Currency      CurrencyCode `json:"currency"`
	CustomerName  string       `json:"customer_name"`
	CustomerCity  string       `json:"customer_city"`
	CustomerPhone string       `json:"customer_phone"`

	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyPhone   string `json:"company_phone"`

	Lines      []InvoiceLine   `json:"lines"`
	Gross      decimal.Decimal `json:"gross"`
	Discount   decimal.Decimal `json:"discount"`
	Net        decimal.Decimal `json:"net"`
	Prepayment decimal.Decimal `json:"prepayment"`
	Remaining  decimal.Decimal `json:"remaining"`
}

type InvoiceLine struct {
	Sku          string          `json:"sku"`
	Color        string          `json:"color"`
	Note         string          `json:"note"`
	Qty          int             `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitDiscount decimal.Decimal `json:"unit_discount"`
	Total        decimal.Decimal `json:"total"`
}

// BuildInvoice assembles the snapshot for an order in the main display
// currency. Aggregates are converted before rounding; per-line figures
// are rounded individually for display.
func BuildInvoice(ctx context.Context, orderId int) (*InvoiceSnapshot, error) {
	order, err := GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}
	customer, err := GetCustomer(ctx, order.CustomerId)
	if err != nil {
		return nil, err
	}
	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	currency := settings.MainCurrency
	if currency == "" {
		currency = CurrencyUSD
	}
	rates := settings.Rates()

	totals := PriceOrder(order.Items, order.LumpDiscount)
	prepayment := order.LegacyPrepaymentUsd()
	remaining := order.RemainingUsd()

	snapshot := InvoiceSnapshot{
		OrderNo:        order.OrderNo,
		OrderDate:      order.OrderDate.Format("02.01.2006"),
		Currency:       currency,
		CustomerName:   customer.Name,
		CustomerCity:   customer.City,
		CustomerPhone:  customer.PhoneDisplay(),
		CompanyName:    settings.CompanyName,
		CompanyAddress: settings.CompanyAddress,
		CompanyPhone:   settings.CompanyPhone,
		Gross:          RoundDisplay(ToDisplay(totals.Gross, currency, rates)),
		Discount:       RoundDisplay(ToDisplay(totals.LineDiscount.Add(totals.LumpDiscount), currency, rates)),
		Net:            RoundDisplay(ToDisplay(totals.Net, currency, rates)),
		Prepayment:     RoundDisplay(ToDisplay(prepayment, currency, rates)),
		Remaining:      RoundDisplay(ToDisplay(remaining, currency, rates)),
	}

	for i := range order.Items {
		item := &order.Items[i]
		snapshot.Lines = append(snapshot.Lines, InvoiceLine{
			Sku:          item.Sku,
			Color:        item.Color,
			Note:         item.Note,
			Qty:          item.Qty,
			UnitPrice:    RoundDisplay(ToDisplay(item.UnitPrice, currency, rates)),
			UnitDiscount: RoundDisplay(ToDisplay(item.UnitDiscount, currency, rates)),
			Total:        RoundDisplay(ToDisplay(item.TotalAmount, currency, rates)),
		})
	}

	return &snapshot, nil
}

// ExportInvoiceExcel renders the snapshot to an xlsx workbook.
func ExportInvoiceExcel(snapshot *InvoiceSnapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", snapshot.CompanyName)
	f.SetCellValue(sheet, "A2", snapshot.CompanyAddress)
	f.SetCellValue(sheet, "A3", snapshot.CompanyPhone)
	f.SetCellValue(sheet, "A5", fmt.Sprintf("Invoice #%d from %s", snapshot.OrderNo, snapshot.OrderDate))
	f.SetCellValue(sheet, "A6", fmt.Sprintf("%s, %s, %s", snapshot.CustomerName, snapshot.CustomerCity, snapshot.CustomerPhone))

	// Table header
	f.SetCellValue(sheet, "A8", "SKU")
	f.SetCellValue(sheet, "B8", "Color")
	f.SetCellValue(sheet, "C8", "Sizes")
	f.SetCellValue(sheet, "D8", "Qty")
	f.SetCellValue(sheet, "E8", "Price")
	f.SetCellValue(sheet, "F8", "Discount")
	f.SetCellValue(sheet, "G8", "Total")

	row := 9
	for _, line := range snapshot.Lines {
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), line.Sku)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), line.Color)
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), line.Note)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), line.Qty)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), line.UnitPrice.InexactFloat64())
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), line.UnitDiscount.InexactFloat64())
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), line.Total.InexactFloat64())
		row++
	}

	row++
	currency := string(snapshot.Currency)
	f.SetCellValue(sheet, "F"+fmt.Sprint(row), "Subtotal ("+currency+")")
	f.SetCellValue(sheet, "G"+fmt.Sprint(row), snapshot.Gross.InexactFloat64())
	row++
	f.SetCellValue(sheet, "F"+fmt.Sprint(row), "Discount")
	f.SetCellValue(sheet, "G"+fmt.Sprint(row), snapshot.Discount.InexactFloat64())
	row++
	f.SetCellValue(sheet, "F"+fmt.Sprint(row), "Total")
	f.SetCellValue(sheet, "G"+fmt.Sprint(row), snapshot.Net.InexactFloat64())
	row++
	f.SetCellValue(sheet, "F"+fmt.Sprint(row), "Prepayment")
	f.SetCellValue(sheet, "G"+fmt.Sprint(row), snapshot.Prepayment.InexactFloat64())
	row++
	f.SetCellValue(sheet, "F"+fmt.Sprint(row), "Balance due")
	f.SetCellValue(sheet, "G"+fmt.Sprint(row), snapshot.Remaining.InexactFloat64())

	return f, nil
}
