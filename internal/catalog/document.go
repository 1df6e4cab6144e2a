package catalog

import (
	"bytes"
	"errors"
	"io"
	"path"

	domainCatalog "github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Document names a catalog document. Each document lives in its own file
// named after it, e.g. plans.json or events.yaml.
type Document string

const (
	DocumentProducts Document = "products"
	DocumentPlans    Document = "plans"
	DocumentPrices   Document = "prices"
	DocumentEvents   Document = "events"
)

// Format is the encoding of a catalog document file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// documents lists every document with the formats it may be written in
var documents = []struct {
	name     Document
	required bool
	formats  []Format
}{
	{DocumentProducts, true, []Format{FormatJSON, FormatYAML}},
	{DocumentPlans, true, []Format{FormatJSON, FormatYAML}},
	{DocumentPrices, false, []Format{FormatJSON, FormatYAML, FormatCSV}},
	{DocumentEvents, false, []Format{FormatJSON, FormatYAML}},
}

func extensions(f Format) []string {
	switch f {
	case FormatYAML:
		return []string{".yaml", ".yml"}
	default:
		return []string{"." + string(f)}
	}
}

func formatOf(file string) Format {
	switch path.Ext(file) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// decode reads a document body into out, which must be a pointer to a slice
func decode(file string, body []byte, out any) error {
	var err error
	switch formatOf(file) {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(body))
		dec.KnownFields(true)
		err = dec.Decode(out)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		err = json.Unmarshal(body, out)
	}
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Catalog document %s could not be decoded", file).
			WithReportableDetails(map[string]any{
				"file": file,
			}).
			Mark(ierr.ErrConfiguration)
	}
	return nil
}

// Encode writes a document in the given format. The output of Encode can be
// read back by the loader.
func Encode(w io.Writer, format Format, doc any) error {
	var err error
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	default:
		return ierr.NewErrorf("unsupported document format %q", format).
			WithHint("Documents can be encoded as json or yaml").
			Mark(ierr.ErrValidation)
	}
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to encode %s document", format).
			Mark(ierr.ErrInternal)
	}
	return nil
}

// documentsOf splits a catalog into its documents
func documentsOf(c *domainCatalog.Catalog) map[Document]any {
	return map[Document]any{
		DocumentProducts: sortedValues(c.Products()),
		DocumentPlans:    sortedValues(c.Plans()),
		DocumentPrices:   sortedValues(c.PriceLists()),
		DocumentEvents:   c.EventsByStart(),
	}
}
