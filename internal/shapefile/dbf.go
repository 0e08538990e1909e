package shapefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDBF decodes a dBase III attribute table.
//
// Numeric columns decode to int64 (no decimals) or float64, logical
// columns to bool, everything else to string. Blank values decode to
// nil so callers can distinguish missing data from zero.
func parseDBF(path string, data []byte) ([]FieldDesc, []map[string]interface{}, error) {
	if len(data) < dbfFieldSize {
		return nil, nil, &FormatError{Path: path, Reason: "truncated table header"}
	}

	numRecords := int(binary.LittleEndian.Uint32(data[4:8]))
	headerSize := int(binary.LittleEndian.Uint16(data[8:10]))
	recordSize := int(binary.LittleEndian.Uint16(data[10:12]))

	if headerSize < dbfFieldSize+1 || headerSize > len(data) {
		return nil, nil, &FormatError{Path: path, Reason: "invalid table header size"}
	}

	// Field descriptors run from byte 32 to the 0x0D terminator,
	// 32 bytes each.
	var fields []FieldDesc
	for off := dbfFieldSize; off+dbfFieldSize <= headerSize && data[off] != dbfTerminator; off += dbfFieldSize {
		desc := data[off : off+dbfFieldSize]
		name := string(bytes.TrimRight(desc[0:11], "\x00"))
		fields = append(fields, FieldDesc{
			Name:     name,
			Type:     FieldType(desc[11]),
			Length:   desc[16],
			Decimals: desc[17],
		})
	}

	expected := 1
	for _, f := range fields {
		expected += int(f.Length)
	}
	if expected != recordSize {
		return nil, nil, &FormatError{Path: path, Reason: "record size disagrees with field descriptors"}
	}

	rows := make([]map[string]interface{}, 0, numRecords)
	off := headerSize
	for r := 0; r < numRecords; r++ {
		if off+recordSize > len(data) {
			return nil, nil, &FormatError{Path: path, Reason: "truncated record data"}
		}
		rec := data[off : off+recordSize]
		off += recordSize

		// 0x2A marks a soft-deleted record. The record still counts
		// toward the table length and still pairs with shape r, so it
		// becomes an empty row rather than vanishing.
		if rec[0] == '*' {
			rows = append(rows, map[string]interface{}{})
			continue
		}

		row := make(map[string]interface{}, len(fields))
		fieldOff := 1
		for _, f := range fields {
			raw := strings.TrimSpace(string(rec[fieldOff : fieldOff+int(f.Length)]))
			fieldOff += int(f.Length)
			row[f.Name] = decodeValue(f, raw)
		}
		rows = append(rows, row)
	}

	return fields, rows, nil
}

func decodeValue(f FieldDesc, raw string) interface{} {
	if raw == "" {
		return nil
	}
	switch f.Type {
	case FieldNumeric, FieldFloat:
		if f.Decimals == 0 && f.Type == FieldNumeric {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return v
			}
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return nil
	case FieldLogical:
		switch raw {
		case "Y", "y", "T", "t":
			return true
		case "N", "n", "F", "f":
			return false
		}
		return nil
	default:
		return raw
	}
}

// encodeDBF serializes the attribute table as dBase III.
func encodeDBF(fields []FieldDesc, rows []map[string]interface{}) ([]byte, error) {
	headerSize := dbfFieldSize + len(fields)*dbfFieldSize + 1
	recordSize := 1
	for _, f := range fields {
		if f.Length == 0 {
			return nil, fmt.Errorf("field %q has zero length", f.Name)
		}
		recordSize += int(f.Length)
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + recordSize*len(rows) + 1)

	now := time.Now()
	header := make([]byte, dbfFieldSize)
	header[0] = dbfVersion
	header[1] = byte(now.Year() - 1900)
	header[2] = byte(now.Month())
	header[3] = byte(now.Day())
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(rows)))
	binary.LittleEndian.PutUint16(header[8:10], uint16(headerSize))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordSize))
	buf.Write(header)

	for _, f := range fields {
		desc := make([]byte, dbfFieldSize)
		name := f.Name
		if len(name) > 10 {
			name = name[:10]
		}
		copy(desc[0:11], name)
		desc[11] = byte(f.Type)
		desc[16] = f.Length
		desc[17] = f.Decimals
		buf.Write(desc)
	}
	buf.WriteByte(dbfTerminator)

	for _, row := range rows {
		buf.WriteByte(' ')
		for _, f := range fields {
			cell, err := encodeValue(f, row[f.Name])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			buf.WriteString(cell)
		}
	}
	buf.WriteByte(dbfEOF)

	return buf.Bytes(), nil
}

// encodeValue formats one cell at the field's fixed width. Numerics are
// right-aligned, text left-aligned, per the dBase convention.
func encodeValue(f FieldDesc, v interface{}) (string, error) {
	width := int(f.Length)

	var s string
	switch f.Type {
	case FieldNumeric, FieldFloat:
		switch n := v.(type) {
		case nil:
			s = ""
		case int:
			s = strconv.FormatInt(int64(n), 10)
		case int32:
			s = strconv.FormatInt(int64(n), 10)
		case int64:
			s = strconv.FormatInt(n, 10)
		case float64:
			s = strconv.FormatFloat(n, 'f', int(f.Decimals), 64)
		default:
			return "", fmt.Errorf("value %v is not numeric", v)
		}
		if len(s) > width {
			return "", fmt.Errorf("value %q exceeds field width %d", s, width)
		}
		return strings.Repeat(" ", width-len(s)) + s, nil

	case FieldLogical:
		switch b := v.(type) {
		case nil:
			s = "?"
		case bool:
			if b {
				s = "T"
			} else {
				s = "F"
			}
		default:
			return "", fmt.Errorf("value %v is not boolean", v)
		}
		return s + strings.Repeat(" ", width-len(s)), nil

	default:
		if v != nil {
			s = fmt.Sprintf("%v", v)
		}
		if len(s) > width {
			s = s[:width]
		}
		return s + strings.Repeat(" ", width-len(s)), nil
	}
}
