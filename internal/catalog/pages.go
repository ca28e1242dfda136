package catalog

// PageItem is one entry in a reduced page-number strip: either a concrete
// page or a single ellipsis standing in for an elided range.
type PageItem struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageItems reduces [1..total] to the pages worth rendering around current:
// always page 1 and the last page, plus pages within distance 1 of current.
// An elided range collapses to one ellipsis, and only when its bound sits
// more than 2 pages from the edge, so an ellipsis never hides a single page.
func PageItems(current, total int) []PageItem {
	var items []PageItem
	for page := 1; page <= total; page++ {
		switch {
		case page == 1 || page == total || (page >= current-1 && page <= current+1):
			items = append(items, PageItem{Page: page})
		case page == current-2 && current > 3:
			items = append(items, PageItem{Ellipsis: true})
		case page == current+2 && current < total-2:
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	return items
}
