// Package frontmatter handles the YAML front-matter block of generated
// documents and of unit metadata sources.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front-matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Style captures newline shape needed for stable rewriting.
type Style struct {
	Newline string
}

// Block is a parsed front-matter block together with the document body.
//
// Fields is nil when the document had no front-matter; Body always holds the
// remaining document bytes.
type Block struct {
	Fields map[string]any
	Body   []byte
	Had    bool
	Style  Style
}

// Parse splits `---` delimited YAML front-matter from the body and decodes it.
//
// A document without a leading delimiter yields a Block with Had=false and the
// full input as Body.
func Parse(content []byte) (*Block, error) {
	style := detectStyle(content)
	nl := style.Newline

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return &Block{Body: content, Style: style}, nil
	}

	start := len(open)
	var raw, body []byte
	switch {
	case bytes.HasPrefix(content[start:], open):
		// Empty front-matter block.
		raw = nil
		body = content[start+len(open):]
	default:
		closeSeq := []byte(nl + "---" + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			return nil, ErrMissingClosingDelimiter
		}
		raw = content[start : start+idx+len(nl)]
		body = content[start+idx+len(closeSeq):]
	}

	fields := map[string]any{}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}

	return &Block{
		Fields: fields,
		Body:   append([]byte(nil), body...),
		Had:    true,
		Style:  style,
	}, nil
}

// Bytes reassembles the document: serialized front-matter (when present)
// followed by the body.
func (b *Block) Bytes() ([]byte, error) {
	if !b.Had || len(b.Fields) == 0 {
		return b.Body, nil
	}

	nl := b.Style.Newline
	if nl == "" {
		nl = "\n"
	}

	raw, err := Serialize(b.Fields, b.Style)
	if err != nil {
		return nil, err
	}

	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(raw)+len(b.Body))
	out = append(out, delim...)
	out = append(out, raw...)
	out = append(out, delim...)
	out = append(out, b.Body...)
	return out, nil
}

// String returns a string field, or "" when absent or not a string.
func (b *Block) String(key string) string {
	if b == nil || b.Fields == nil {
		return ""
	}
	s, _ := b.Fields[key].(string)
	return s
}

// Strings returns a string-list field, tolerating []any elements.
func (b *Block) Strings(key string) []string {
	if b == nil || b.Fields == nil {
		return nil
	}
	switch v := b.Fields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}
	return Style{Newline: newline}
}
