package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"ecom_back_end/internal/models"
)

// SendOrderConfirmationEmail envoie la confirmation de commande. Best effort :
// l'échec est loggé, jamais remonté au client — la commande est déjà créée.
func SendOrderConfirmationEmail(order models.Order) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️ SMTP non configuré, email de confirmation ignoré")
		return
	}

	port := 587
	if v, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && v > 0 {
		port = v
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@ecom.local"
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		log.Printf("❌ Adresse expéditeur invalide: %v", err)
		return
	}
	if err := msg.To(order.UserDetails.UserEmail); err != nil {
		log.Printf("❌ Adresse destinataire invalide: %v", err)
		return
	}
	msg.Subject("Order confirmation " + order.TrackingID)
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		log.Printf("❌ Erreur client SMTP: %v", err)
		return
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", order.UserDetails.UserEmail)
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("❌ Erreur envoi email: %v", err)
	}
}

func orderConfirmationHTML(order models.Order) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Your order has been placed</h2>
		<p>Hello %s,</p>
		<p>Tracking ID: <strong>%s</strong></p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantity</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				<tr>
					<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
					<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
					<td style="padding: 10px; border: 1px solid #ddd;">%.2f %s</td>
				</tr>
			</tbody>
		</table>
		<p>Status: %s</p>
	</div>
</body>
</html>`,
		order.UserDetails.UserName,
		order.TrackingID,
		order.ProductDetail.Name,
		order.Quantity,
		order.TotalPrice,
		order.ProductDetail.Currency,
		order.OrderStatus,
	)
}
