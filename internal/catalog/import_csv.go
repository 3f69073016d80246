package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"cabquote/internal"
)

// importCSV reads a CSV price-book export, sniffing the encoding first:
// dealer exports are usually UTF-8 but Windows-1252 files still show up.
func importCSV(r io.Reader) (ImportResult, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	charset := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			charset = strings.ToLower(det.Charset)
		}
	}

	var decoded io.Reader = br
	switch charset {
	case "windows-1252", "cp1252", "iso-8859-1":
		decoded = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportResult{}, err
		}
		rows = append(rows, rec)
	}

	result := ImportResult{Catalog: internal.Catalog{}}
	mergeRows(&result, rows)
	if len(result.Catalog) == 0 {
		return ImportResult{}, errors.New("no catalog rows found in csv")
	}
	return result, nil
}
