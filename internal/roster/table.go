package roster

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/danielholmes839/attendance-list/internal/layout"
)

const defaultTableSelector = "table"

// ParseTable reads the first table matching selector. Header rows have no td
// cells and are skipped with the other incomplete rows.
func ParseTable(page io.Reader, selector string) ([]layout.Person, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, err
	}

	if selector == "" {
		selector = defaultTableSelector
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table matches %q", selector)
	}

	people := []layout.Person{}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := []string{}
		row.Find("td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, td.Text())
		})

		if p, ok := person(cells); ok {
			people = append(people, p)
		}
	})

	return people, nil
}
