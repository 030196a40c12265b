package rentals

import (
	"fmt"
	"strings"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
)

const messageTimeLayout = "2006-01-02 15:04 MST"

func createdMessage(rental *models.Rental, user *models.User, vehicle *models.Vehicle, remaining int) string {
	var b strings.Builder
	b.WriteString("🚗 New rental created\n")
	fmt.Fprintf(&b, "Rental: %s\n", rental.ID)
	fmt.Fprintf(&b, "User: %s (%s)\n", user.FullName(), user.Email)
	fmt.Fprintf(&b, "Vehicle: %s %s [%s]\n", vehicle.Brand, vehicle.Model, strings.ToUpper(vehicle.Type.String()))
	fmt.Fprintf(&b, "From: %s\n", rental.RentalAt.Format(messageTimeLayout))
	fmt.Fprintf(&b, "To: %s\n", rental.DueAt.Format(messageTimeLayout))
	fmt.Fprintf(&b, "Remaining units: %d", remaining)
	return b.String()
}

func returnedMessage(rental *models.Rental, user *models.User, vehicle *models.Vehicle, returnedAt time.Time, units int) string {
	var b strings.Builder
	b.WriteString("🔄 Rental returned\n")
	fmt.Fprintf(&b, "Rental: %s\n", rental.ID)
	fmt.Fprintf(&b, "User: %s\n", user.FullName())
	fmt.Fprintf(&b, "Vehicle: %s %s\n", vehicle.Brand, vehicle.Model)
	fmt.Fprintf(&b, "Returned at: %s\n", returnedAt.Format(messageTimeLayout))
	fmt.Fprintf(&b, "Available units: %d", units)
	return b.String()
}
