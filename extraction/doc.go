// Package extraction turns raw extraction-oracle answers into typed source
// results.
//
// Oracle output is untrusted text. It may be wrapped in markdown fences,
// preceded by chatter, truncated mid-object or written with sloppy keys.
// Normalize is the single boundary where that text is cleaned up and either
// coerced into a core.SourceProfile or kept verbatim as an Unparsed result.
// Parse failures are never errors.
package extraction
