package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// coerceText renders a decoded JSON value the way the model's training
// pipeline stringified non-string input: null is "None", booleans are
// "True"/"False", floats use the shortest round-trip form with a ".0" or
// exponent, and containers print as literal lists and dicts with
// single-quoted strings. Strings at the top level are returned verbatim.
func coerceText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var sb strings.Builder
	if err := writeValue(&sb, dec, true); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeValue(sb *strings.Builder, dec *json.Decoder, top bool) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case nil:
		sb.WriteString("None")
	case bool:
		if v {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case json.Number:
		sb.WriteString(formatNumber(v))
	case string:
		if top {
			sb.WriteString(v)
		} else {
			sb.WriteString(quoteLiteral(v))
		}
	case json.Delim:
		switch v {
		case '[':
			return writeList(sb, dec)
		case '{':
			return writeDict(sb, dec)
		}
		return fmt.Errorf("unexpected delimiter %q", v)
	}
	return nil
}

func writeList(sb *strings.Builder, dec *json.Decoder) error {
	sb.WriteByte('[')
	for i := 0; dec.More(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := writeValue(sb, dec, false); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	sb.WriteByte(']')
	return nil
}

// writeDict keeps first-seen key order; a repeated key overwrites the earlier
// value in place.
func writeDict(sb *strings.Builder, dec *json.Decoder) error {
	var keys []string
	vals := map[string]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("object key %v is not a string", tok)
		}
		var vb strings.Builder
		if err := writeValue(&vb, dec, false); err != nil {
			return err
		}
		if _, seen := vals[key]; !seen {
			keys = append(keys, key)
		}
		vals[key] = vb.String()
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteLiteral(k))
		sb.WriteString(": ")
		sb.WriteString(vals[k])
	}
	sb.WriteByte('}')
	return nil
}

// formatNumber prints integers exactly and floats in shortest round-trip
// form, fixed notation for decimal exponents in [-4, 16) and scientific
// otherwise.
func formatNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return i.String()
		}
		return s
	}

	f, err := strconv.ParseFloat(s, 64)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case err != nil:
		return s
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// quoteLiteral single-quotes s, switching to double quotes when s contains a
// single quote and no double quote. Non-printable runes are escaped.
func quoteLiteral(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
