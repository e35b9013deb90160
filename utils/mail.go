package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/uiaphotography/uia-api/models"
	"gorm.io/gorm"
)

const resendBaseURL = "https://api.resend.com"

type downloadLink struct {
	Title string
	Url   string
}

type confirmationData struct {
	CustomerName  string
	OrderID       uint
	Items         []models.OrderItem
	DownloadLinks []downloadLink
	HasPhysical   bool
}

type shipmentData struct {
	CustomerName   string
	OrderID        uint
	ItemSummary    string
	Carrier        string
	TrackingNumber string
	TrackingUrl    string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<html>
<body>
	<h2>Hi {{.CustomerName}},</h2>
	<p>Thank you for your order! It's always a pleasure to have you as a customer. Enjoy your photos!</p>
	<h3>Order Summary (#{{.OrderID}}):</h3>
	<ul>
	{{range .Items}}<li>{{.Quantity}}x {{.Name}} ({{.ProductKind}})</li>{{end}}
	</ul>
	{{if .DownloadLinks}}
	<h3>Your Digital Downloads:</h3>
	<ul>
	{{range .DownloadLinks}}<li><a href="{{.Url}}" target="_blank">{{.Title}}</a></li>{{end}}
	</ul>
	{{else}}<p>No digital downloads associated with this order.</p>{{end}}
	{{if .HasPhysical}}
	<p><strong>Physical Items:</strong> You'll receive a separate email with shipping details and tracking information once your order has been dispatched.</p>
	{{end}}
	<p>Best regards,<br/><strong>UIAPhotography.</strong></p>
</body>
</html>`))

var shipmentTmpl = template.Must(template.New("shipment").Parse(`
<html>
<body>
	<h2>Hi {{.CustomerName}},</h2>
	<p>Great news! Your order <strong>#{{.OrderID}}</strong> has been shipped and is on its way.</p>
	<h3>Order Summary:</h3>
	<p>{{.ItemSummary}}</p>
	<h3>Shipping Details:</h3>
	<p>Carrier: {{.Carrier}}</p>
	<p>Tracking Number: {{.TrackingNumber}}</p>
	<p>You can track your package here: <a href="{{.TrackingUrl}}">Track My Order</a></p>
	<p>Thank you for shopping with us!</p>
	<p>Best regards,<br/><strong>UIAPhotography.</strong></p>
</body>
</html>`))

// ResendMailer sends transactional order emails through the Resend API. It
// implements checkout.Notifier.
type ResendMailer struct {
	db     *gorm.DB
	client *resty.Client
	from   string
}

func NewResendMailer(db *gorm.DB) *ResendMailer {
	client := resty.New().
		SetBaseURL(resendBaseURL).
		SetAuthToken(os.Getenv("RESEND_API_KEY")).
		SetHeader("Content-Type", "application/json")
	return &ResendMailer{
		db:     db,
		client: client,
		from:   os.Getenv("RESEND_FROM_EMAIL"),
	}
}

func (m *ResendMailer) send(to, subject, html string) error {
	resp, err := m.client.R().
		SetBody(map[string]any{
			"from":    m.from,
			"to":      []string{to},
			"subject": subject,
			"html":    html,
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode(), resp.Body())
	}
	return nil
}

// SendConfirmation emails an order summary, with download links for digital
// items and a dispatch notice when the order has physical items.
func (m *ResendMailer) SendConfirmation(order *models.Order) error {
	data := confirmationData{
		CustomerName: order.CustomerName,
		OrderID:      order.ID,
		Items:        order.Items,
	}
	for _, item := range order.Items {
		switch item.ProductKind {
		case models.KindPhysical:
			data.HasPhysical = true
		case models.KindDigital:
			var product models.Product
			if err := m.db.First(&product, item.ProductID).Error; err == nil && product.ImageUrl != "" {
				data.DownloadLinks = append(data.DownloadLinks, downloadLink{
					Title: product.Title,
					Url:   product.ImageUrl,
				})
			}
		}
	}

	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	subject := "Order Confirmation for " + itemTitles(order.Items)
	return m.send(order.CustomerEmail, subject, body.String())
}

// SendShipmentUpdate emails carrier and tracking details once staff mark an
// order dispatched. Missing tracking fields render as N/A.
func (m *ResendMailer) SendShipmentUpdate(order *models.Order, info *models.ShippingInfo) error {
	data := shipmentData{
		CustomerName:   order.CustomerName,
		OrderID:        order.ID,
		ItemSummary:    itemSummary(order.Items),
		Carrier:        orNA(info.Carrier),
		TrackingNumber: orNA(info.TrackingNumber),
		TrackingUrl:    info.TrackingUrl,
	}
	if data.TrackingUrl == "" {
		data.TrackingUrl = "#"
	}

	var body bytes.Buffer
	if err := shipmentTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	subject := fmt.Sprintf("Your Order #%d Has Shipped!", order.ID)
	return m.send(order.CustomerEmail, subject, body.String())
}

// itemTitles joins item names as "A, B and C" for email subjects.
func itemTitles(items []models.OrderItem) string {
	if len(items) == 0 {
		return "your products"
	}
	if len(items) == 1 {
		return items[0].Name
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func itemSummary(items []models.OrderItem) string {
	if len(items) == 0 {
		return "your products"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%d %s (%s)", item.Quantity, item.Name, item.ProductKind)
	}
	return strings.Join(parts, ", ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
