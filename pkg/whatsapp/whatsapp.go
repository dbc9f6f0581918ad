// Package whatsapp builds the checkout handoff: a pre-filled message
// URL the storefront client navigates to after placing an order.
// There is no response contract; the application never learns whether
// the message was actually sent.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"essence/internal/models"
)

// SendEndpoint is the messaging endpoint the checkout redirects to.
const SendEndpoint = "https://api.whatsapp.com/send"

// BuildCheckoutURL formats order into the storefront's order message
// and returns the send URL for the given target phone number.
func BuildCheckoutURL(phone string, order models.Order) string {
	query := url.Values{}
	query.Set("phone", phone)
	query.Set("text", BuildMessage(order))
	return SendEndpoint + "?" + query.Encode()
}

// BuildMessage renders the order as the WhatsApp order text.
func BuildMessage(order models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛍️ *NUEVO PEDIDO - ESSENCE SMART*\n\n")
	fmt.Fprintf(&b, "📋 *Orden #:* %s\n", order.ID)
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", order.CustomerInfo.Name)
	fmt.Fprintf(&b, "📞 *Teléfono:* %s\n", order.CustomerInfo.Phone)
	fmt.Fprintf(&b, "📧 *Email:* %s\n", order.CustomerInfo.Email)
	fmt.Fprintf(&b, "📍 *Dirección:* %s\n", order.CustomerInfo.Address)
	fmt.Fprintf(&b, "💳 *Método de Pago:* %s\n\n", titleCase(order.PaymentMethod))

	fmt.Fprintf(&b, "🛒 *PRODUCTOS:*\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Product.Name)
		fmt.Fprintf(&b, "   Cantidad: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Precio: RD$%s\n", FormatAmount(item.Product.Price))
		fmt.Fprintf(&b, "   Subtotal: RD$%s\n\n", FormatAmount(item.LineTotal()))
	}

	fmt.Fprintf(&b, "💰 *RESUMEN:*\n")
	fmt.Fprintf(&b, "Subtotal: RD$%s\n", FormatAmount(order.Subtotal))
	fmt.Fprintf(&b, "ITBIS (18%%): RD$%s\n", FormatAmount(order.ITBIS))
	fmt.Fprintf(&b, "*TOTAL: RD$%s*\n\n", FormatAmount(order.Total))
	fmt.Fprintf(&b, "¡Gracias por elegir Essence Smart! 🌟")

	return b.String()
}

// FormatAmount renders an amount with thousands separators, keeping
// up to two decimals and dropping them entirely for whole values.
func FormatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 && intPart[i-1] != '-' {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return grouped.String() + fracPart
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
