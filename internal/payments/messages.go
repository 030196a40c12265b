package payments

import (
	"fmt"
	"strings"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/shopspring/decimal"
)

func paidMessage(payment *models.Payment, user *models.User, vehicle *models.Vehicle) string {
	amount := decimal.New(payment.AmountCents, -2)

	var b strings.Builder
	b.WriteString("💰 Payment received\n")
	fmt.Fprintf(&b, "Payment: %s\n", payment.ID)
	fmt.Fprintf(&b, "Rental: %s\n", payment.RentalID)
	fmt.Fprintf(&b, "Type: %s\n", strings.ToUpper(payment.Type.String()))
	fmt.Fprintf(&b, "Amount: %s %s\n", amount.StringFixed(2), strings.ToUpper(payment.Currency))
	fmt.Fprintf(&b, "User: %s\n", user.FullName())
	fmt.Fprintf(&b, "Vehicle: %s %s", vehicle.Brand, vehicle.Model)
	return b.String()
}
