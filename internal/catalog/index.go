package catalog

// IndexMapping declares how one field is indexed. A field may carry several
// mappings (one per FieldType). Document mappings nest sub-fields.
type IndexMapping struct {
	Type FieldType

	// Autocomplete options.
	Tokenization   string // "nGram", "edgeGram", "rightEdgeGram"
	MinGrams       int
	MaxGrams       int
	FoldDiacritics bool

	// Document sub-fields (Type == FieldDocument).
	Fields map[string][]IndexMapping
}

// IndexDefinition declares the search index for one backend collection.
type IndexDefinition struct {
	// Enabled collections get their index provisioned at startup;
	// disabled ones are skipped and reported as such.
	Enabled bool
	// Name is the search index name on the backing collection.
	Name string
	// Dynamic controls dynamic field mapping on the index.
	Dynamic bool
	// Fields maps field name to its index mappings.
	Fields map[string][]IndexMapping
}

func (d IndexDefinition) validate(collection string) error {
	if d.Name == "" {
		return catalogErrorf("collection %q: index name is required", collection)
	}
	if len(d.Fields) == 0 {
		return catalogErrorf("collection %q: index %q has no field mappings", collection, d.Name)
	}
	return validateMappings(collection, d.Fields)
}

func validateMappings(collection string, fields map[string][]IndexMapping) error {
	for name, mappings := range fields {
		if len(mappings) == 0 {
			return catalogErrorf("collection %q: field %q has no index mappings", collection, name)
		}
		for _, m := range mappings {
			if !m.Type.Valid() {
				return catalogErrorf("collection %q: field %q has unknown index type %q", collection, name, m.Type)
			}
			if m.Type == FieldAutocomplete && m.MinGrams > 0 && m.MaxGrams > 0 && m.MinGrams > m.MaxGrams {
				return catalogErrorf("collection %q: field %q minGrams exceeds maxGrams", collection, name)
			}
			if m.Type == FieldDocument {
				if len(m.Fields) == 0 {
					return catalogErrorf("collection %q: document field %q has no sub-fields", collection, name)
				}
				if err := validateMappings(collection, m.Fields); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
