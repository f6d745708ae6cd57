// Package searchd provides an embedded Go client for the searchd
// cross-collection search engine backed by MongoDB Atlas Search.
//
// The client wires the full search stack in-process: it connects to the
// database, provisions the configured search indexes, and serves queries
// without running the HTTP server.
//
//	client, err := searchd.New(ctx,
//	    searchd.WithMongo("mongodb+srv://cluster0.example.mongodb.net", "interactly"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	resp, err := client.Search(ctx, searchd.Request{
//	    TeamID: "team-1",
//	    Query:  "Assistant",
//	})
//
// By default the client serves the built-in catalog (the bots collection
// under the "assistant" category). Use WithCatalog to search a custom
// collection set.
package searchd
