// Package catalog holds the part record model and the snapshot loader.
// A snapshot is an immutable, caller-owned set of part records; the matching
// core only ever reads from it.
package catalog

import (
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// CodeDelimiter separates alternate codes inside OriginalCodes.
// This is a bit-exact contract with the external catalog data source.
const CodeDelimiter = " / "

// Brand is a manufacturer name. Catalog exports carry it either as a plain
// string or as a structured entity with a name field; both decode into Brand.
type Brand struct {
	Name string `msgpack:"name" json:"name"`
}

var _ msgpack.CustomDecoder = (*Brand)(nil)

// DecodeMsgpack accepts both the plain-string and the entity form.
func (b *Brand) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if code == msgpcode.Nil {
		b.Name = ""
		return dec.DecodeNil()
	}
	if msgpcode.IsString(code) {
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		b.Name = name
		return nil
	}
	var entity struct {
		Name string `msgpack:"name"`
	}
	if err := dec.Decode(&entity); err != nil {
		return err
	}
	b.Name = entity.Name
	return nil
}

// Part is one catalog record. All fields except ID are optional; absent
// fields contribute nothing to match scoring.
type Part struct {
	ID          string `msgpack:"id" json:"id"`
	SKU         string `msgpack:"sku" json:"sku"`
	Title       string `msgpack:"title" json:"title"`
	Description string `msgpack:"description" json:"description"`
	Brand       Brand  `msgpack:"brand" json:"brand"`
	// OriginalCodes is the raw " / "-delimited OEM code list.
	OriginalCodes string `msgpack:"original_codes" json:"original_codes"`
}

// BrandName returns the resolved manufacturer name, empty when unknown.
func (p *Part) BrandName() string {
	return p.Brand.Name
}

// Codes splits OriginalCodes on the delimiter, trimming each entry and
// dropping blanks.
func (p *Part) Codes() []string {
	return SplitCodes(p.OriginalCodes)
}

// SplitCodes splits a raw delimited code list into trimmed entries.
func SplitCodes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	pieces := strings.Split(raw, CodeDelimiter)
	codes := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
}
