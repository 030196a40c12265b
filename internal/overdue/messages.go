package overdue

import (
	"fmt"
	"strings"
	"time"
)

const allClearMessage = "✅ No rentals overdue today!"

func entryMessage(entry Entry, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("⏰ Overdue rental alert\n")
	fmt.Fprintf(&b, "Rental: %s\n", entry.RentalID)
	fmt.Fprintf(&b, "Due on: %s\n", entry.DueAt.In(loc).Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "User: %s\n", entry.Renter)
	fmt.Fprintf(&b, "Vehicle: %s\n", entry.Vehicle)
	fmt.Fprintf(&b, "Days overdue: %d", entry.DaysOverdue)
	return b.String()
}
