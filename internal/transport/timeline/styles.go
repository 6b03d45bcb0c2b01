package timeline

import "github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"

// Style is the icon and accent color of an operation.
type Style struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var fallbackStyle = Style{Icon: "•", Color: "gray"}

var operationStyles = map[audit.Operation]Style{
	audit.OperationCreate:         {Icon: "✚", Color: "green"},
	audit.OperationStatusUpdate:   {Icon: "↻", Color: "blue"},
	audit.OperationPaymentUpdate:  {Icon: "$", Color: "emerald"},
	audit.OperationProductUpdate:  {Icon: "▣", Color: "indigo"},
	audit.OperationBulkAction:     {Icon: "≡", Color: "purple"},
	audit.OperationCustomerUpdate: {Icon: "☺", Color: "cyan"},
	audit.OperationShippingUpdate: {Icon: "➜", Color: "sky"},
	audit.OperationCourierUpdate:  {Icon: "⛟", Color: "teal"},
	audit.OperationCancel:         {Icon: "✕", Color: "red"},
	audit.OperationDelete:         {Icon: "⌫", Color: "rose"},
	audit.OperationRestore:        {Icon: "↺", Color: "lime"},
	audit.OperationFraudReview:    {Icon: "⚠", Color: "amber"},
	audit.OperationNotesUpdate:    {Icon: "✎", Color: "slate"},
}

// OperationStyle returns the display style of op, or a gray bullet for
// unrecognized tags.
func OperationStyle(op audit.Operation) Style {
	if s, ok := operationStyles[op]; ok {
		return s
	}

	return fallbackStyle
}
