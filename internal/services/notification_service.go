// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/liquorquest/liquorquest-backend/internal/config"
	"github.com/liquorquest/liquorquest-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

// SendOrderConfirmation emails the customer a receipt for a freshly placed
// order. Orders without a customer email are skipped silently; email is
// optional at checkout.
func (s *NotificationService) SendOrderConfirmation(order *OrderWithItems) error {
	if order.CustomerEmail == "" {
		return nil
	}

	tmpl := s.getEmailTemplate("order_confirmation")

	type lineView struct {
		Name     string
		Quantity int
		Price    string
	}
	lines := make([]lineView, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		lines = append(lines, lineView{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	data := map[string]interface{}{
		"CustomerName": order.CustomerName,
		"OrderID":      order.ID.String(),
		"Lines":        lines,
		"DeliveryFee":  order.DeliveryFee,
		"TotalAmount":  order.TotalAmount,
		"DeliveryArea": fmt.Sprintf("%s, %s", order.DeliveryArea, order.DeliveryCounty),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(order.CustomerEmail, tmpl.Subject, body)
}

// SendOrderStatusUpdate emails the customer when an admin moves their order
// to a new status.
func (s *NotificationService) SendOrderStatusUpdate(order *models.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}

	tmpl := s.getEmailTemplate("order_status")

	data := map[string]interface{}{
		"CustomerName": order.CustomerName,
		"OrderID":      order.ID.String(),
		"Status":       string(order.Status),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(order.CustomerEmail, tmpl.Subject, body)
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"FirstName": user.FirstName,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("email delivery skipped, SMTP not configured")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"order_confirmation": {
			Subject: "Your Liquor Quest order",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you, {{.CustomerName}}!</h2>
	<p>We received your order <strong>{{.OrderID}}</strong> and will deliver to {{.DeliveryArea}}.</p>
	<table>
		{{range .Lines}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>KES {{.Price}}</td></tr>
		{{end}}
		<tr><td>Delivery</td><td></td><td>KES {{.DeliveryFee}}</td></tr>
		<tr><td><strong>Total</strong></td><td></td><td><strong>KES {{.TotalAmount}}</strong></td></tr>
	</table>
	<p>Cheers,<br>Liquor Quest</p>
</body>
</html>`,
		},
		"order_status": {
			Subject: "Order update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.CustomerName}},</h2>
	<p>Your order <strong>{{.OrderID}}</strong> is now <strong>{{.Status}}</strong>.</p>
	<p>Cheers,<br>Liquor Quest</p>
</body>
</html>`,
		},
		"welcome": {
			Subject: "Welcome to Liquor Quest",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Karibu{{if .FirstName}}, {{.FirstName}}{{end}}!</h2>
	<p>Your Liquor Quest account is ready. Browse the shelves and order anytime.</p>
	<p>Cheers,<br>Liquor Quest</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
