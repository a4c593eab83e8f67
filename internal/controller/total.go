package controller

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const unknownTotal = "thousands of"

var printer = message.NewPrinter(language.English)

// TotalCount is the size of the catalog shown in the search placeholder.
// The zero value is unknown.
type TotalCount struct {
	known bool
	n     int
}

func UnknownTotal() TotalCount {
	return TotalCount{}
}

func KnownTotal(n int) TotalCount {
	return TotalCount{known: true, n: n}
}

func (t TotalCount) Value() (int, bool) {
	return t.n, t.known
}

// String renders the count with grouping separators, or "thousands of"
// before it has loaded.
func (t TotalCount) String() string {
	if !t.known {
		return unknownTotal
	}
	return printer.Sprintf("%d", t.n)
}
