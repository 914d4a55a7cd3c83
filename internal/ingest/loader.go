// Package ingest turns the source exports into raw tables. It is the
// only place that touches input files; the pipeline never does I/O.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"zapintel/internal"
)

// LoadFile parses one export into a raw table. The format is picked by
// extension, except that legacy POS ".xls" exports are often HTML
// tables in disguise, so the content is sniffed first.
func LoadFile(path string, kind internal.TableKind) (internal.RawTable, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.RawTable{}, err
	}

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(blob, name, kind)
	case ".xlsx":
		return parseXLSX(blob, name, kind)
	case ".xls":
		if looksLikeHTML(blob) {
			return parseHTMLTable(blob, name, kind)
		}
		return parseXLSX(blob, name, kind)
	case ".html", ".htm":
		return parseHTMLTable(blob, name, kind)
	default:
		return internal.RawTable{}, fmt.Errorf("unsupported input file: %s", name)
	}
}

func parseCSV(blob []byte, name string, kind internal.TableKind) (internal.RawTable, error) {
	blob = bytes.TrimPrefix(blob, []byte{0xef, 0xbb, 0xbf})
	reader := csv.NewReader(bytes.NewReader(blob))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return internal.RawTable{}, fmt.Errorf("csv %s: %w", name, err)
	}
	if len(records) == 0 {
		return internal.RawTable{Name: name, Kind: kind}, nil
	}
	return tableFromRows(name, kind, records), nil
}

func parseXLSX(blob []byte, name string, kind internal.TableKind) (internal.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return internal.RawTable{}, fmt.Errorf("spreadsheet %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return internal.RawTable{Name: name, Kind: kind}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return internal.RawTable{}, fmt.Errorf("spreadsheet %s: %w", name, err)
	}
	return tableFromRows(name, kind, rows), nil
}

func parseHTMLTable(blob []byte, name string, kind internal.TableKind) (internal.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return internal.RawTable{}, fmt.Errorf("html %s: %w", name, err)
	}

	var rows [][]string
	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, normalizeSpaces(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return internal.RawTable{Name: name, Kind: kind}, nil
	}
	return tableFromRows(name, kind, rows), nil
}

// tableFromRows treats the first row as headers and pads or truncates
// every data row to the header width, so a ragged export still yields
// complete records.
func tableFromRows(name string, kind internal.TableKind, rows [][]string) internal.RawTable {
	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	table := internal.RawTable{Name: name, Kind: kind, Headers: headers}
	for _, row := range rows[1:] {
		record := make(internal.RawRecord, len(headers))
		empty := true
		for i, header := range headers {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			table.Rows = append(table.Rows, record)
		}
	}
	return table
}

func looksLikeHTML(blob []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(blob))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<table")) ||
		bytes.HasPrefix(head, []byte("<!doctype"))
}

var reSpaces = regexp.MustCompile(`\s+`)

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// Inputs holds the discovered path of each source export; an empty
// entry means the file was absent from the input directory.
type Inputs struct {
	Contacts   string
	Customers  string
	Orders     string
	OrderItems string
}

var discoveryPatterns = []struct {
	kind     internal.TableKind
	patterns []string
}{
	{internal.KindContacts, []string{`(?i)contacts.*\.csv$`, `(?i)contacts.*\.xlsx?$`}},
	{internal.KindCustomers, []string{`(?i)lista[-_ ]clientes.*\.xlsx?$`}},
	{internal.KindOrders, []string{`(?i)todos os pedidos.*\.xlsx?$`}},
	{internal.KindOrderItems, []string{`(?i)historico_itens_vendidos.*\.xlsx?$`}},
}

// Discover scans a directory for the four exports by the file name
// conventions the POS and contacts tools use. The first match per kind
// wins; missing files are reported by the caller, not here.
func Discover(dir string) (Inputs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Inputs{}, err
	}

	var inputs Inputs
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, d := range discoveryPatterns {
			slot := kindPath(&inputs, d.kind)
			if *slot != "" {
				continue
			}
			for _, pattern := range d.patterns {
				if regexp.MustCompile(pattern).MatchString(name) {
					*slot = filepath.Join(dir, name)
					break
				}
			}
		}
	}
	return inputs, nil
}

func kindPath(inputs *Inputs, kind internal.TableKind) *string {
	switch kind {
	case internal.KindContacts:
		return &inputs.Contacts
	case internal.KindCustomers:
		return &inputs.Customers
	case internal.KindOrders:
		return &inputs.Orders
	case internal.KindOrderItems:
		return &inputs.OrderItems
	default:
		return nil
	}
}
