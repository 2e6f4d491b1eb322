// Package pipeline turns treatment reads into the set of novel k-mers.
//
// A Pipeline runs three phases against one k-mer set: Build counts every
// canonical window of the treatment streams, then SubtractControl and
// SubtractReference remove every window seen in the control reads and the
// reference. The two subtractions commute. After Freeze the set is
// read-only and is handed to the extractor and the emitter.
package pipeline
