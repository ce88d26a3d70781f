// Package retrieval fetches the candidate pool for a query from a
// similarity provider.
//
// A Provider returns scored hits under its own score convention: cosine
// similarity providers report higher-is-better scores, distance-based
// indexes report lower-is-better ones. The Retriever wraps a provider with
// a retry policy, decodes each hit's profile metadata, keeps the best hit
// per property and converts every score into a single Distance where lower
// is always more similar.
package retrieval
