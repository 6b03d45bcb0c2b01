package status

import "strings"

// Classification is the display treatment of a free-text status.
type Classification struct {
	Icon         string `json:"icon"`
	ColorClasses string `json:"colorClasses"`
	Label        string `json:"label"`
}

type rule struct {
	keywords       []string
	classification Classification
}

// rules are evaluated in order and the first match wins, so a status that
// mentions both "cancelled" and "pending" is classified as cancelled.
var rules = []rule{
	{
		keywords: []string{"delivered"},
		classification: Classification{
			Icon:         "check-circle",
			ColorClasses: "text-green-600 bg-green-50 border-green-200",
			Label:        "Delivered",
		},
	},
	{
		keywords: []string{"transit", "shipping"},
		classification: Classification{
			Icon:         "truck",
			ColorClasses: "text-blue-600 bg-blue-50 border-blue-200",
			Label:        "In Transit",
		},
	},
	{
		keywords: []string{"processing", "preparing"},
		classification: Classification{
			Icon:         "package",
			ColorClasses: "text-yellow-600 bg-yellow-50 border-yellow-200",
			Label:        "Processing",
		},
	},
	{
		keywords: []string{"cancelled", "failed"},
		classification: Classification{
			Icon:         "x-circle",
			ColorClasses: "text-red-600 bg-red-50 border-red-200",
			Label:        "Cancelled",
		},
	},
	{
		keywords: []string{"pending", "awaiting"},
		classification: Classification{
			Icon:         "clock",
			ColorClasses: "text-orange-600 bg-orange-50 border-orange-200",
			Label:        "Pending",
		},
	},
	{
		keywords: []string{"out for delivery"},
		classification: Classification{
			Icon:         "map-pin",
			ColorClasses: "text-purple-600 bg-purple-50 border-purple-200",
			Label:        "Out for Delivery",
		},
	},
}

// Classify maps a free-text delivery or order status to a display
// classification. Matching is case-insensitive on substrings. Unknown
// statuses get the generic info treatment labelled with the input as is.
func Classify(status string) Classification {
	s := strings.ToLower(status)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(s, kw) {
				return r.classification
			}
		}
	}

	return Classification{
		Icon:         "info",
		ColorClasses: "text-gray-600 bg-gray-50 border-gray-200",
		Label:        status,
	}
}
