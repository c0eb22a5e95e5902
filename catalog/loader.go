package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/giygas/antimalarial-dosage/logging"
	"golang.org/x/text/encoding/charmap"
)

// SourceEmbedded is reported when the built-in tables are in use
const SourceEmbedded = "embedded"

// Document is the JSON form of a product, used for catalog files and API output
type Document struct {
	ID             ProductID       `json:"id"`
	Name           string          `json:"name"`
	Description    LocalizedText   `json:"description,omitempty"`
	Scheme         SchemeKind      `json:"scheme,omitempty"`
	MinWeight      *float64        `json:"minWeight,omitempty"`
	MaxWeight      *float64        `json:"maxWeight,omitempty"`
	Types          []TabletType    `json:"types,omitempty"`
	DosageFormula  *DosageFormula  `json:"dosageFormula,omitempty"`
	Strengths      []Strength      `json:"strengths,omitempty"`
	Concentration  float64         `json:"concentration,omitempty"`
	Concentrations *Concentrations `json:"concentrations,omitempty"`
}

// ToDocument converts a product to its JSON document form
func ToDocument(p *Product) Document {
	doc := Document{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Scheme:      p.Scheme.Kind(),
	}

	minW, maxW := p.Scheme.WeightDomain()
	doc.MinWeight = &minW
	doc.MaxWeight = &maxW

	switch s := p.Scheme.(type) {
	case *TabletScheme:
		doc.Types = s.Types
	case *VialScheme:
		formula := s.Formula
		doc.DosageFormula = &formula
		doc.Strengths = s.Strengths
		doc.Concentration = s.Concentration
		doc.Concentrations = s.Concentrations
	}

	return doc
}

// Product converts a document into a product, applying default weight domains
func (d Document) Product() (*Product, error) {
	hasTablets := len(d.Types) > 0
	hasVials := d.DosageFormula != nil

	if hasTablets == hasVials {
		return nil, fmt.Errorf("product %s must define exactly one of types or dosageFormula", d.ID)
	}

	p := &Product{ID: d.ID, Name: d.Name, Description: d.Description}

	if hasTablets {
		p.Scheme = &TabletScheme{
			Types:     d.Types,
			MinWeight: valueOr(d.MinWeight, tabletMinWeight),
			MaxWeight: valueOr(d.MaxWeight, tabletMaxWeight),
		}
		return p, nil
	}

	if len(d.Strengths) == 0 {
		return nil, fmt.Errorf("product %s has a dosage formula but no strengths", d.ID)
	}

	vs := &VialScheme{
		Formula:   *d.DosageFormula,
		Strengths: d.Strengths,
		Solvent:   SingleSolvent,
		MinWeight: valueOr(d.MinWeight, vialMinWeight),
		MaxWeight: valueOr(d.MaxWeight, vialMaxWeight),
	}
	if d.Concentrations != nil {
		vs.Solvent = DualSolvent
		vs.Concentrations = d.Concentrations
	} else {
		vs.Concentration = d.Concentration
		if vs.Concentration == 0 {
			vs.Concentration = singleSolventConcentration
		}
	}
	p.Scheme = vs

	return p, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Loader reads the catalog from a JSON file, or serves the embedded tables
// when no path is configured
type Loader struct {
	Path string
}

// NewLoader creates a loader for path; an empty path selects the embedded catalog
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// LoadCatalog returns a freshly built catalog and a description of its source
func (l *Loader) LoadCatalog() (*Catalog, string, error) {
	if l.Path == "" {
		return Default(), SourceEmbedded, nil
	}

	cleanPath := filepath.Clean(l.Path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, cleanPath, fmt.Errorf("failed to open catalog file %s: %w", cleanPath, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("Failed to close catalog file", "path", cleanPath, "error", err)
		}
	}()

	c, err := Decode(f)
	if err != nil {
		return nil, cleanPath, fmt.Errorf("failed to load catalog %s: %w", cleanPath, err)
	}

	return c, cleanPath, nil
}

// Decode parses a JSON array of product documents. Input that is not valid
// UTF-8 is read as ISO-8859-1, the encoding spreadsheet exports tend to use.
func Decode(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var reader io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		logging.Debug("Catalog is not UTF-8, decoding as ISO-8859-1", "size", len(raw))
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
	}

	var docs []Document
	if err := json.NewDecoder(reader).Decode(&docs); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("catalog contains no products")
	}

	products := make([]*Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.Product()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return New(products...)
}

// Encode writes the catalog as an indented JSON array of product documents
func Encode(w io.Writer, c *Catalog) error {
	docs := make([]Document, 0, c.Len())
	for _, p := range c.Products() {
		docs = append(docs, ToDocument(p))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
