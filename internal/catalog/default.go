package catalog

// Default returns the production catalog. One collection today; adding a
// category means adding its collection config, index definition, and mapping
// here, nothing else in the service changes.
func Default() *Catalog {
	return MustNew(
		map[string]Collection{
			"bots": {
				Searchable: []Field{
					{
						Path: "name",
						Type: FieldAutocomplete,
						Fuzzy: &Fuzzy{
							MaxEdits:      1,
							PrefixLength:  1,
							MaxExpansions: 50,
						},
					},
				},
				Returnable:       []string{"_id", "name", "teamId"},
				TeamIDField:      "teamId",
				TeamIDType:       TeamIDString,
				DisplayNameField: "name",
			},
		},
		map[string]IndexDefinition{
			"bots": {
				Enabled: true,
				Name:    "bots_search_index",
				Dynamic: false,
				Fields: map[string][]IndexMapping{
					"name": {
						{
							Type:           FieldAutocomplete,
							Tokenization:   "nGram",
							MinGrams:       2,
							MaxGrams:       15,
							FoldDiacritics: true,
						},
					},
				},
			},
		},
		[]Mapping{
			{Frontend: "assistant", Backend: "bots"},
		},
	)
}
