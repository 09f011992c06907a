package spectrum

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
)

// LoadCSV reads a two-column spectrum file. See ReadCSV for the accepted
// formats.
func LoadCSV(path string) (Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spectrum{}, fmt.Errorf("open spectrum: %w", err)
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return Spectrum{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

// ReadCSV parses wavelength (nm) and transmittance (%) from the first two
// columns. The delimiter is detected from the first data line (';', tab,
// ',' or whitespace). '%' signs are stripped, decimal commas become dots and
// transmittance is divided by 100. Rows that do not parse, such as headers,
// are dropped. The result is sorted by wavelength with duplicates removed,
// keeping the first occurrence.
func ReadCSV(r io.Reader) (Spectrum, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Spectrum{}, fmt.Errorf("read spectrum: %w", err)
	}

	delim := detectDelimiter(raw)

	var rows [][]string
	if delim == ' ' {
		rows = splitFields(raw)
	} else {
		reader := csv.NewReader(bytes.NewReader(raw))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		rows, err = reader.ReadAll()
		if err != nil {
			return Spectrum{}, fmt.Errorf("parse spectrum: %w", err)
		}
	}

	type sample struct{ lam, t float64 }
	samples := make([]sample, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		lam, okLam := parseValue(row[0])
		t, okT := parseValue(row[1])
		if !okLam || !okT {
			continue
		}
		samples = append(samples, sample{lam: lam, t: t / 100})
	}
	if len(samples) == 0 {
		return Spectrum{}, ErrNoData
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].lam < samples[j].lam })

	out := Spectrum{
		Wavelength:    make([]float64, 0, len(samples)),
		Transmittance: make([]float64, 0, len(samples)),
	}
	for i, s := range samples {
		if i > 0 && s.lam == samples[i-1].lam {
			continue
		}
		out.Wavelength = append(out.Wavelength, s.lam)
		out.Transmittance = append(out.Transmittance, s.t)
	}
	return out, nil
}

func parseValue(field string) (float64, bool) {
	field = strings.TrimSpace(field)
	field = strings.ReplaceAll(field, "%", "")
	field = strings.ReplaceAll(field, ",", ".")
	v, err := strconv.ParseFloat(field, 64)
	if err != nil || !common.IsFinite(v) {
		return 0, false
	}
	return v, true
}

// detectDelimiter inspects the first line that contains a digit. ';' and tab
// win over ',' so decimal-comma exports are not split inside numbers. ' '
// means whitespace-separated columns.
func detectDelimiter(raw []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.ContainsAny(line, "0123456789") {
			continue
		}
		switch {
		case strings.Contains(line, ";"):
			return ';'
		case strings.Contains(line, "\t"):
			return '\t'
		case strings.Contains(line, ","):
			return ','
		default:
			return ' '
		}
	}
	return ','
}

func splitFields(raw []byte) [][]string {
	var rows [][]string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
			rows = append(rows, fields)
		}
	}
	return rows
}
