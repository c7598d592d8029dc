// Package zipstore builds ZIP archives from in-memory buffers using only the
// "store" method (no compression). The writer emits the three regions of the
// format by hand: local file headers followed by raw entry bytes, the central
// directory, and the end-of-central-directory record, all with fixed
// little-endian field layouts.
//
// Every entry's CRC-32 is computed over the stored bytes. Lenient readers
// tolerate a zeroed CRC field, but strict ones do not, so the checksum is
// always real here.
//
// Not supported: compression methods other than store, multi-volume
// archives, ZIP64, timestamps, comments, and extra fields.
package zipstore
