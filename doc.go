/*
Package rollcrc computes CRC-32 checksums over a sliding fixed-size window of
a byte stream, in constant time per byte regardless of the window size.

Every reported checksum is the standard CRC-32 (ISO 3309, IEEE 802.3, zip) of
the window contents, so a window checksum can be compared directly with
Checksum or hash/crc32.ChecksumIEEE of the same bytes. This makes the rolling
stream suitable for substring search and content-defined chunking, where a
fingerprint is needed at every position.

# Usage

A Context holds the tables for one window size. A Roller consumes bytes one at
a time and reports the checksum of the last window-size bytes once enough
bytes have been seen:

	ctx := rollcrc.NewContext(4)
	r := rollcrc.NewRoller(ctx)
	for pos, sum := range r.All(slices.Values(data)) {
		if sum == ctx.Checksum(target) {
			fmt.Println("candidate at", pos)
		}
	}

AllResults does the same over a source that can fail, such as Bytes wrapping a
bufio.Reader. Errors are passed through in place.

# Concurrency

A Context is immutable and safe for concurrent use by multiple goroutines.
Building it costs O(256 * window size), so share one Context between all
Rollers of the same window size. A Roller is not safe for concurrent use; use
Clone to fork an independent copy.

# Non-goals

The checksum is not cryptographic and not collision resistant. Equal
checksums indicate candidate matches that callers should confirm against the
bytes, for example with Roller.Window.
*/
package rollcrc
