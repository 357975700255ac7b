package content

import (
	"bytes"

	"github.com/adrg/frontmatter"
)

// ParseFrontMatter splits a content file into its YAML metadata mapping and
// the Markdown body.
//
// A file with no front-matter block is kept: the metadata is empty and the
// whole file is the body. A block whose YAML fails to parse yields empty
// metadata and the body after the closing delimiter; the error is returned
// so the caller can log it, but the result is still usable.
func ParseFrontMatter(data []byte) (map[string]interface{}, []byte, error) {
	var meta map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err == nil {
		if meta == nil {
			meta = map[string]interface{}{}
		}
		return meta, body, nil
	}

	// Malformed YAML inside the delimiters. Recover the body by splitting
	// on the delimiter lines ourselves.
	_, rest, had := splitDelimited(data)
	if !had {
		rest = data
	}
	return map[string]interface{}{}, rest, err
}

// splitDelimited separates a `---` delimited block from the rest of the
// document without interpreting the block's contents.
func splitDelimited(data []byte) (block, rest []byte, had bool) {
	for _, nl := range []string{"\n", "\r\n"} {
		open := []byte("---" + nl)
		if !bytes.HasPrefix(data, open) {
			continue
		}
		if bytes.HasPrefix(data[len(open):], open) {
			return []byte{}, data[2*len(open):], true
		}
		closeSeq := []byte(nl + "---" + nl)
		idx := bytes.Index(data[len(open):], closeSeq)
		if idx < 0 {
			return nil, nil, false
		}
		blockEnd := len(open) + idx + len(nl)
		return data[len(open):blockEnd], data[len(open)+idx+len(closeSeq):], true
	}
	return nil, nil, false
}
