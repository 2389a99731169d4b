package xcstrings

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

const indentUnit = "  "

// Indent rewrites compact JSON in the layout Xcode uses for string catalogs: two-space
// indentation, " : " between keys and values, empty containers holding a blank line and no
// HTML escaping. Object key order is kept as is.
func Indent(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := writeValue(dec, &buf, 0); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, xerrors.New("unexpected data after top-level value")
	}

	return buf.Bytes(), nil
}

func writeValue(dec *json.Decoder, buf *bytes.Buffer, depth int) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return writeContainer(dec, buf, depth, '{', '}', true)
		case '[':
			return writeContainer(dec, buf, depth, '[', ']', false)
		default:
			return xerrors.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return writeString(buf, v)
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return xerrors.Errorf("unexpected token %v", tok)
	}

	return nil
}

func writeContainer(dec *json.Decoder, buf *bytes.Buffer, depth int, open, close byte, object bool) error {
	buf.WriteByte(open)
	if !dec.More() {
		buf.WriteString("\n\n")
		buf.WriteString(strings.Repeat(indentUnit, depth))
	} else {
		for first := true; dec.More(); first = false {
			if !first {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indentUnit, depth+1))

			if object {
				tok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := tok.(string)
				if !ok {
					return xerrors.Errorf("expected object key, got %v", tok)
				}
				if err := writeString(buf, key); err != nil {
					return err
				}
				buf.WriteString(" : ")
			}

			if err := writeValue(dec, buf, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indentUnit, depth))
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte(close)

	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
