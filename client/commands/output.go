package commands

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/hedisam/entrymeta/lib/metadata"
)

func printTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(rows)
	table.Render()
}

func printPairs(w io.Writer, pairs [][2]string) {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}
	table.Render()
}

// describe lists the attributes md carries individually, in key order.
func describe(md metadata.Metadata) [][2]string {
	pairs := [][2]string{{metadata.KeyMode.String(), md.Mode().String()}}
	for k := range md.Presence().Keys() {
		if k == metadata.KeyComplete || k == metadata.KeyMode {
			continue
		}
		if v, ok := attribute(md, k); ok {
			pairs = append(pairs, [2]string{k.String(), v})
		}
	}
	return pairs
}

// cell renders a single attribute for a table, "-" when it was not fetched.
func cell(md metadata.Metadata, k metadata.Key) string {
	v, ok := attribute(md, k)
	if !ok {
		return "-"
	}
	return v
}

func attribute(md metadata.Metadata, k metadata.Key) (string, bool) {
	var (
		v   string
		err error
	)
	switch k {
	case metadata.KeyCacheControl:
		v, err = md.CacheControl()
	case metadata.KeyContentDisposition:
		v, err = md.ContentDisposition()
	case metadata.KeyContentLength:
		var n uint64
		n, err = md.ContentLength()
		v = strconv.FormatUint(n, 10)
	case metadata.KeyContentMD5:
		v, err = md.ContentMD5()
	case metadata.KeyContentRange:
		var cr metadata.ContentRange
		cr, err = md.ContentRange()
		v = cr.String()
	case metadata.KeyContentType:
		v, err = md.ContentType()
	case metadata.KeyETag:
		v, err = md.ETag()
	case metadata.KeyLastModified:
		var t time.Time
		t, err = md.LastModified()
		if err == nil {
			v = t.UTC().Format(http.TimeFormat)
		}
	case metadata.KeyVersion:
		v, err = md.Version()
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}
	return v, true
}
