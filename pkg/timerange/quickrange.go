package timerange

// QuickRange is one entry of the fixed quick-range picker.
type QuickRange struct {
	Label string
	Range Range
}

// QuickRanges are the picker entries offered by the query editor, in display
// order. Share links serialize the underlying expressions, not the labels.
var QuickRanges = []QuickRange{
	{Label: "Last 5 minutes", Range: Range{From: "now-5m", To: "now", Enabled: true}},
	{Label: "Last 15 minutes", Range: Range{From: "now-15m", To: "now", Enabled: true}},
	{Label: "Last 30 minutes", Range: Range{From: "now-30m", To: "now", Enabled: true}},
	{Label: "Last 1 hour", Range: Range{From: "now-1h", To: "now", Enabled: true}},
	{Label: "Last 3 hours", Range: Range{From: "now-3h", To: "now", Enabled: true}},
	{Label: "Last 6 hours", Range: Range{From: "now-6h", To: "now", Enabled: true}},
	{Label: "Last 12 hours", Range: Range{From: "now-12h", To: "now", Enabled: true}},
	{Label: "Last 24 hours", Range: Range{From: "now-24h", To: "now", Enabled: true}},
	{Label: "Last 7 days", Range: Range{From: "now-7d", To: "now", Enabled: true}},
	{Label: "Last 30 days", Range: Range{From: "now-30d", To: "now", Enabled: true}},
	{Label: "Today", Range: Range{From: "now/d", To: "now", Enabled: true}},
	{Label: "Yesterday", Range: Range{From: "now-1d/d", To: "now/d", Enabled: true}},
	{Label: "This week", Range: Range{From: "now/w", To: "now", Enabled: true}},
	{Label: "This month", Range: Range{From: "now/M", To: "now", Enabled: true}},
	{Label: "This year", Range: Range{From: "now/y", To: "now", Enabled: true}},
}

// QuickRangeByLabel looks up a picker entry by its display label.
func QuickRangeByLabel(label string) (QuickRange, bool) {
	for _, qr := range QuickRanges {
		if qr.Label == label {
			return qr, true
		}
	}
	return QuickRange{}, false
}
