// Package language provides language code normalization for job submissions.
//
// The backend accepts a fixed set of ISO 639-1 codes. User input arrives as
// codes, 3-letter codes, English names, or full BCP 47 tags; everything is
// reduced to the supported 2-letter form here so the submission and config
// layers never guess.
package language
