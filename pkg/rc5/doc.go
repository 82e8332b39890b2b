// Package rc5 implements the RC5 block cipher as described by Ronald L. Rivest
// in "The RC5 Encryption Algorithm" (1994).
//
// RC5 is parameterised by a word size w, a round count r and a key length b.
// One generic body, Cipher[W], implements the algorithm for every unsigned word
// type; the supported presets are exposed as distinct named types:
//
//	RC5-8/12/4    New8_12_4    -> *Cipher8_12_4
//	RC5-16/16/8   New16_16_8   -> *Cipher16_16_8
//	RC5-32/12/16  New32_12_16  -> *Cipher32_12_16
//	RC5-32/20/16  New32_20_16  -> *Cipher32_20_16
//	RC5-64/24/24  New64_24_24  -> *Cipher64_24_24
//
// Each cipher operates on exactly one block of 2*(w/8) bytes. Words are read
// and written little-endian. A constructed cipher is immutable and may be used
// from any number of goroutines without synchronisation.
//
// Modes of operation and padding are intentionally not provided.
package rc5
