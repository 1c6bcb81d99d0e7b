// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
	tmpl   *template.Template
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	s := &Service{
		config: cfg,
		now:    time.Now,
	}
	s.tmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
		"money": s.money,
	}).Parse(invoiceTemplate))
	return s
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// Set PDF options
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	// Add page from HTML content
	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the invoice page that GenerateInvoice converts
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := InvoiceData{
		InvoiceNumber: "INV-" + o.ShortID(),
		InvoiceDate:   s.now().Format("January 2, 2006"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.Invoice.CompanyName,
			Address: s.config.Invoice.CompanyAddress,
			Phone:   s.config.Invoice.CompanyPhone,
			Email:   s.config.Invoice.CompanyEmail,
			Website: s.config.Invoice.CompanyWebsite,
		},
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// money formats an amount with the configured currency suffix, e.g. "45.00 DT"
func (s *Service) money(v float64) string {
	if s.config.Invoice.Currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, s.config.Invoice.Currency)
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	Order         *order.Order `json:"order"`
	Company       CompanyInfo  `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #f9a8d4;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .invoice-info {
            text-align: right;
            flex: 1;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #db2777;
            margin-bottom: 10px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #fdf2f8;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 90px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals td {
            padding: 8px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
            background-color: #fef3c7;
            color: #92400e;
        }
        .status-completed {
            background-color: #dcfce7;
            color: #166534;
        }
        .status-cancelled {
            background-color: #fee2e2;
            color: #991b1b;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            {{if .Company.Phone}}<p>Phone: {{.Company.Phone}}</p>{{end}}
            {{if .Company.Email}}<p>Email: {{.Company.Email}}</p>{{end}}
            {{if .Company.Website}}<p>{{.Company.Website}}</p>{{end}}
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.ID}}</p>
            <p><strong>Order Date:</strong> {{.Order.CreatedAt.Format "January 2, 2006"}}</p>
            <p><span class="status-badge status-{{.Order.Status}}">{{.Order.Status}}</span></p>
        </div>
    </div>

    <div class="shipping-info">
        <div class="section-title">Ship To:</div>
        <p><strong>{{.Order.ShippingInfo.FullName}}</strong></p>
        <p>{{.Order.ShippingInfo.Address}}</p>
        {{if .Order.ShippingInfo.City}}<p>{{.Order.ShippingInfo.City}}</p>{{end}}
        <p>Phone: {{.Order.ShippingInfo.Phone}}</p>
        {{if .Order.ShippingInfo.Email}}<p>Email: {{.Order.ShippingInfo.Email}}</p>{{end}}
        {{if .Order.ShippingInfo.Notes}}<p><em>{{.Order.ShippingInfo.Notes}}</em></p>{{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>
                    <strong>{{.Name}}</strong>
                    {{with .Customization.Describe}}<br><small>{{.}}</small>{{end}}
                </td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{money .Price}}</td>
                <td class="total-col">{{money .LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td>Payment:</td>
                <td>Cash on delivery</td>
            </tr>
            <tr class="total-row">
                <td>Total:</td>
                <td>{{money .Order.TotalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with us!</p>
        {{if .Company.Email}}<p>Questions about this invoice? Contact us at {{.Company.Email}}</p>{{end}}
    </div>
</body>
</html>
`
