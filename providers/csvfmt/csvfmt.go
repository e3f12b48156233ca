// Package csvfmt implements the "csv" provider (§6.2): a thin parser on
// top of encoding/csv, producing an ARRAY of "row" ELEMENTs. When the
// first record looks like a header (no functional distinction in CSV
// itself, so this is a caller-controlled flag), each row's columns become
// named attributes instead of positional children.
package csvfmt

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/oxhq/inkwell/core"
)

// Provider parses CSV source into a core.Item tree: an ARRAY of "row"
// ELEMENTs, one per record, columns keyed "col0", "col1", ... unless
// HasHeader is set, in which case the first record supplies attribute
// names for every subsequent row.
type Provider struct {
	HasHeader bool
}

func New() *Provider { return &Provider{HasHeader: true} }

func (*Provider) Format() string       { return "csv" }
func (*Provider) Extensions() []string { return []string{".csv"} }
func (*Provider) MIMETypes() []string  { return []string{"text/csv"} }

func (p *Provider) Parse(in *core.Input, source []byte) error {
	r := csv.NewReader(bytes.NewReader(source))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		in.Fail(core.ErrUnexpectedToken, "csv: %v", err)
		return nil
	}
	if len(records) == 0 {
		in.Root = core.ArrayItem(core.NewList(in.Arena))
		return nil
	}

	var header []string
	rows := records
	if p.HasHeader {
		header = records[0]
		rows = records[1:]
	}

	list := core.NewListCap(in.Arena, len(rows))
	for _, record := range rows {
		list.Push(p.rowElement(in, header, record))
	}
	in.Root = core.ArrayItem(list)
	return nil
}

func (p *Provider) rowElement(in *core.Input, header, record []string) core.Item {
	names := in.Names
	row := core.NewElement(in.Arena, names.Intern("row"))
	for i, field := range record {
		colName := fmt.Sprintf("col%d", i)
		if header != nil && i < len(header) && header[i] != "" {
			colName = header[i]
		}
		row.SetAttr(names.Intern(colName), core.StringItem(core.NewStringFromString(in.Arena, field)))
	}
	return core.ElementItem(row)
}
