package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kamaudevs/sokoapi/common/logger"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/repository"
	"github.com/kamaudevs/sokoapi/sender"
)

const adminEmailHTML = `<html>
<body>
  <h2>New Order Received - {{.Order.OrderNumber}}</h2>
  <p>Customer: {{.Customer.DisplayName}} ({{.Customer.Email}})</p>
  <table border="1" cellpadding="4">
    <tr><th>Product</th><th>Quantity</th><th>Unit Price</th><th>Subtotal</th></tr>
    {{range .Items}}
    <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Subtotal}}</td></tr>
    {{end}}
  </table>
  <p><strong>Total: KES {{.Total}}</strong></p>
  <p>{{.SiteName}}</p>
</body>
</html>`

const adminEmailText = `New Order Received - {{.Order.OrderNumber}}

Customer: {{.Customer.DisplayName}} ({{.Customer.Email}})

Items:
{{range .Items}}- {{.Name}} x{{.Quantity}} @ {{.UnitPrice}} = {{.Subtotal}}
{{end}}
Total: KES {{.Total}}

{{.SiteName}}`

type emailItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

type emailContext struct {
	Order    *models.Order
	Customer *models.Customer
	Items    []emailItem
	Total    string
	SiteName string
}

// Dispatcher delivers order notifications. It is triggered by order id and
// re-fetches state at execution time, so it tolerates the order having
// changed or disappeared between enqueue and execution.
type Dispatcher struct {
	store       repository.Store
	sms         sender.SMSSender
	email       sender.EmailSender
	adminEmail  string
	countryCode string
	htmlTmpl    *template.Template
	textTmpl    *texttemplate.Template
}

// NewDispatcher wires the dispatcher. sms and email may be nil when the
// matching provider credentials are not configured; the corresponding
// sub-task then logs and no-ops.
func NewDispatcher(store repository.Store, sms sender.SMSSender, email sender.EmailSender, adminEmail, countryCode string) *Dispatcher {
	return &Dispatcher{
		store:       store,
		sms:         sms,
		email:       email,
		adminEmail:  adminEmail,
		countryCode: countryCode,
		htmlTmpl:    template.Must(template.New("admin_order_html").Parse(adminEmailHTML)),
		textTmpl:    texttemplate.Must(texttemplate.New("admin_order_text").Parse(adminEmailText)),
	}
}

// Dispatch sends the customer SMS and the admin email for an order. The two
// sub-tasks are independent failure domains: each catches and logs its own
// error, and neither affects the already-committed order.
func (d *Dispatcher) Dispatch(ctx context.Context, orderID uuid.UUID) {
	order, err := d.store.Orders().FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error(ctx, "Order not found for notification", nil,
			zap.String("order_id", orderID.String()))
		return
	}
	if err != nil {
		logger.Error(ctx, "Failed to load order for notification", err,
			zap.String("order_id", orderID.String()))
		return
	}

	d.sendCustomerSMS(ctx, order)
	d.sendAdminEmail(ctx, order)
}

func (d *Dispatcher) sendCustomerSMS(ctx context.Context, order *models.Order) {
	customer := order.Customer
	if customer == nil {
		logger.Error(ctx, "Order has no customer for SMS", nil,
			zap.String("order_id", order.ID.String()))
		return
	}

	if customer.PhoneNumber == "" || d.sms == nil {
		logger.Warn(ctx, "Missing phone number or SMS credentials, skipping SMS",
			zap.String("order_id", order.ID.String()))
		d.recordLog(ctx, order.ID, customer.PhoneNumber, models.ChannelSMS, models.NotificationStatusSkipped, "")
		return
	}

	phone := NormalizePhone(customer.PhoneNumber, d.countryCode)
	greeting := customer.FirstName
	if greeting == "" {
		greeting = customer.Username
	}
	msg := fmt.Sprintf(
		"Hello %s, your order %s has been received. Total: KES %s. Thank you for shopping with us!",
		greeting, order.OrderNumber, order.TotalAmount.StringFixed(2),
	)

	if _, err := d.sms.SendSMS(ctx, phone, msg); err != nil {
		logger.Error(ctx, "Failed to send SMS", err,
			zap.String("order_id", order.ID.String()),
			zap.String("to", phone),
		)
		d.recordLog(ctx, order.ID, phone, models.ChannelSMS, models.NotificationStatusFailed, err.Error())
		return
	}

	logger.Info(ctx, "SMS sent",
		zap.String("order_id", order.ID.String()),
		zap.String("to", phone),
	)
	d.recordLog(ctx, order.ID, phone, models.ChannelSMS, models.NotificationStatusSent, "")
}

func (d *Dispatcher) sendAdminEmail(ctx context.Context, order *models.Order) {
	if d.email == nil {
		logger.Warn(ctx, "SMTP not configured, skipping admin email",
			zap.String("order_id", order.ID.String()))
		d.recordLog(ctx, order.ID, d.adminEmail, models.ChannelEmail, models.NotificationStatusSkipped, "")
		return
	}

	subject := fmt.Sprintf("New Order Received - %s", order.OrderNumber)
	emailCtx := buildEmailContext(order)

	var htmlBody, textBody bytes.Buffer
	if err := d.htmlTmpl.Execute(&htmlBody, emailCtx); err != nil {
		logger.Error(ctx, "Failed to render admin email", err,
			zap.String("order_id", order.ID.String()))
		d.recordLog(ctx, order.ID, d.adminEmail, models.ChannelEmail, models.NotificationStatusFailed, err.Error())
		return
	}
	if err := d.textTmpl.Execute(&textBody, emailCtx); err != nil {
		logger.Error(ctx, "Failed to render admin email", err,
			zap.String("order_id", order.ID.String()))
		d.recordLog(ctx, order.ID, d.adminEmail, models.ChannelEmail, models.NotificationStatusFailed, err.Error())
		return
	}

	if _, err := d.email.SendEmail(ctx, d.adminEmail, subject, htmlBody.String(), textBody.String()); err != nil {
		logger.Error(ctx, "Failed to send admin email", err,
			zap.String("order_id", order.ID.String()))
		d.recordLog(ctx, order.ID, d.adminEmail, models.ChannelEmail, models.NotificationStatusFailed, err.Error())
		return
	}

	logger.Info(ctx, "Admin email sent", zap.String("order_id", order.ID.String()))
	d.recordLog(ctx, order.ID, d.adminEmail, models.ChannelEmail, models.NotificationStatusSent, "")
}

// recordLog is best-effort; a failure to write the log is itself only logged
func (d *Dispatcher) recordLog(ctx context.Context, orderID uuid.UUID, recipient, channel, status, errMsg string) {
	entry := &models.NotificationLog{
		OrderID:   orderID,
		Recipient: recipient,
		Channel:   channel,
		Status:    status,
		Error:     errMsg,
	}
	if err := d.store.Notifications().CreateLog(ctx, entry); err != nil {
		logger.Warn(ctx, "Failed to record notification log", zap.Error(err))
	}
}

func buildEmailContext(order *models.Order) emailContext {
	items := make([]emailItem, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, emailItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}

	return emailContext{
		Order:    order,
		Customer: order.Customer,
		Items:    items,
		Total:    order.TotalAmount.StringFixed(2),
		SiteName: "Soko API",
	}
}

// NormalizePhone converts a phone number to international format. A leading
// "0" is replaced by the country code; a number without a leading "+" gets
// the country code prepended; a number already starting with "+" is left
// untouched.
func NormalizePhone(phone, countryCode string) string {
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	default:
		return countryCode + phone
	}
}

// EagerEnqueuer dispatches in-process instead of through a broker. Used when
// no Kafka brokers are configured; broker-backed dispatch is authoritative
// for production.
type EagerEnqueuer struct {
	dispatcher *Dispatcher
}

func NewEagerEnqueuer(dispatcher *Dispatcher) *EagerEnqueuer {
	return &EagerEnqueuer{dispatcher: dispatcher}
}

// Enqueue runs the dispatch on its own goroutine so the HTTP response never
// waits on delivery
func (e *EagerEnqueuer) Enqueue(ctx context.Context, eventType string, orderID uuid.UUID) error {
	go e.dispatcher.Dispatch(context.Background(), orderID)
	return nil
}
