package entity

import "fmt"

// Unavailability explains why table cannot host partySize guests during window
// given its existing reservations. An empty string means the table is free.
func Unavailability(table *Table, window TimeRange, partySize int, existing []*Reservation) string {
	if !table.IsActive {
		return "table is not active"
	}
	if table.Status != TableStatusAvailable {
		return fmt.Sprintf("table is %s", table.Status)
	}
	if partySize > table.Capacity {
		return fmt.Sprintf("table seats %d, requested %d guests", table.Capacity, partySize)
	}

	for _, reservation := range existing {
		if reservation.TableID != table.ID {
			continue
		}
		if reservation.ConflictsWith(window) {
			return "table is already reserved for the requested time"
		}
	}

	return ""
}

// IsAvailable reports whether table can host partySize guests during window.
func IsAvailable(table *Table, window TimeRange, partySize int, existing []*Reservation) bool {
	return Unavailability(table, window, partySize, existing) == ""
}

// AvailableTables filters tables down to those that can host the party.
func AvailableTables(tables []*Table, window TimeRange, partySize int, existing []*Reservation) []*Table {
	available := make([]*Table, 0, len(tables))
	for _, table := range tables {
		if IsAvailable(table, window, partySize, existing) {
			available = append(available, table)
		}
	}
	return available
}
