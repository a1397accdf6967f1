package domain

import "strings"

const (
	OrderStatusPending      = "pending"
	OrderStatusConfirmed    = "confirmed"
	OrderStatusInProduction = "in_production"
	OrderStatusShipped      = "shipped"
	OrderStatusDelivered    = "delivered"
	OrderStatusCancelled    = "cancelled"
)

var orderStatusLabels = map[string]string{
	OrderStatusPending:      "Pending",
	OrderStatusConfirmed:    "Confirmed",
	OrderStatusInProduction: "In production",
	OrderStatusShipped:      "Shipped",
	OrderStatusDelivered:    "Delivered",
	OrderStatusCancelled:    "Cancelled",
}

// OrderStatusLabel returns a human-readable label for an order status.
func OrderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}

	return "Draft"
}

// ParseOrderStatus normalises a status name (case-insensitive, spaces or
// dashes accepted) and reports whether it is known.
func ParseOrderStatus(raw string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(raw))
	status = strings.NewReplacer(" ", "_", "-", "_").Replace(status)
	_, ok := orderStatusLabels[status]

	return status, ok
}
