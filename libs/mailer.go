package libs

import (
	"context"
	"fmt"
	"html"
	"strings"

	"inventory-billing/config"
	"inventory-billing/models"

	"gopkg.in/gomail.v2"
)

type ReceiptMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewReceiptMailer(cfg *config.Config) (*ReceiptMailer, error) {
	if !cfg.SMTPEnabled() {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &ReceiptMailer{dialer: dialer, from: from}, nil
}

func (s *ReceiptMailer) SendReceipt(ctx context.Context, to string, receipt models.BillWithItems) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", receiptSubject(receipt))
	m.SetBody("text/html", renderReceipt(receipt))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func receiptSubject(receipt models.BillWithItems) string {
	return fmt.Sprintf("Receipt %s - Total %s", shortID(receipt.ID.String()), receipt.Total.StringFixed(2))
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func renderReceipt(receipt models.BillWithItems) string {
	var rows strings.Builder
	for _, item := range receipt.Items {
		fmt.Fprintf(&rows, `
            <tr>
                <td>%s</td>
                <td class="num">%d</td>
                <td class="num">%s</td>
                <td class="num">%s</td>
            </tr>`,
			html.EscapeString(item.ProductName),
			item.Quantity,
			item.Price.StringFixed(2),
			item.Subtotal.StringFixed(2))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        table { width: 100%%; border-collapse: collapse; }
        th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
        .num { text-align: right; }
        .total { font-size: 18px; font-weight: bold; text-align: right; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h2 style="color: #333;">Receipt</h2>
        <p><strong>Bill:</strong> %s<br><strong>Date:</strong> %s</p>
        <table>
            <tr><th>Product</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Subtotal</th></tr>%s
        </table>
        <div class="total">Total: %s</div>
        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
	`,
		receipt.ID.String(),
		receipt.CreatedAt.Format("2006-01-02 15:04"),
		rows.String(),
		receipt.Total.StringFixed(2))
}
