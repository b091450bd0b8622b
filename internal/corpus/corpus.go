// Package corpus implements the static injection corpus spec.md §4.3 and
// §6 describe: an in-source table of named, immutable byte sequences, one
// per QUIC frame type plus known-bad variants, used by the scheduler's
// inject/prepend/replace actions (spec.md §4.5 step 6).
//
// Every entry's bytes and name are grounded on
// original_source/lib/fuzzer_frames.c's fuzi_q_frame_list table — the
// literal wire bytes, not just the shape, come from there; this package
// only renames the array-of-struct idiom into the Go shape the teacher's
// own tables use elsewhere (internal/protocol's constant tables, RFC
// sections cited inline).
package corpus

// Entry is spec.md §4.3/§6's InjectionCorpusEntry: a named, immutable wire
// encoding of one frame, including its type-byte prefix.
type Entry struct {
	Name  string
	Bytes []byte
}

// Table is the full injection corpus, in declaration order. It is never
// mutated after package init; callers needing a named lookup use ByName.
var Table = buildTable()

var byName map[string]*Entry

// ByName returns the entry tagged name, or nil if no such entry exists.
// This backs spec.md §6's test-targeting mechanism: "a caller-selectable
// subset of mutators prefers the named corpus entry when injecting."
func ByName(name string) *Entry {
	return byName[name]
}

func buildTable() []Entry {
	t := []Entry{
		{"padding_5_bytes", rep(0x00, 5)},
		{"padding_7_bytes", rep(0x00, 7)},
		{"padding_10_bytes", rep(0x00, 10)},
		{"padding_13_bytes", rep(0x00, 13)},
		{"padding_2_bytes", rep(0x00, 2)},
		{"padding_50_bytes", rep(0x00, 50)},

		{"reset_stream", b(0x04, 0x01, 0x10, 0x20)},
		{"reset_stream_high_error", b(0x04, 0x01, 0xBF, 0xFF, 0x41, 0x00)},
		{"reset_stream_min_vals", b(0x04, 0x00, 0x00, 0x00)},
		{"reset_stream_max_final_size", b(0x04, 0x01, 0x00, 0xBF, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66)},
		{"reset_stream_app_error_specific", b(0x04, 0x02, 0x41, 0x00, 0x42, 0x00)},

		{"connection_close", b(0x1c, 0x00, 0x00, 0x00)},
		{"connection_close_transport_long_reason", append(b(0x1c, 0x01, 0x00, 0x14), []byte("transport level error!")...)},
		{"application_close", b(0x1d, 0x00, 0x00)},
		{"application_close_long_reason", append(b(0x1d, 0x2b, 0x1e), []byte("application level error condition")...)},

		{"max_data", b(0x10, 0x40, 0x01, 0x00, 0x00)},
		{"max_data_large", b(0x10, 0xBF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF)},
		{"max_data_zero", b(0x10, 0x00)},

		{"max_stream_data", b(0x11, 0x01, 0x80, 0x01, 0x00, 0x00)},
		{"max_stream_data_zero", b(0x11, 0x02, 0x00)},

		{"max_streams_bidir", b(0x12, 0x40, 0x64)},
		{"max_streams_unidir", b(0x13, 0x40, 0x64)},
		{"max_streams_bidir_alt", b(0x12, 0x41, 0x00)},
		{"max_streams_bidir_zero", b(0x12, 0x00)},
		{"max_streams_bidi_very_high", b(0x12, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)},
		{"max_streams_unidir_zero", b(0x13, 0x00)},
		{"max_streams_uni_very_high", b(0x13, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE)},

		{"ping", b(0x01)},

		{"data_blocked", b(0x14, 0x80, 0x01, 0x00, 0x00)},
		{"data_blocked_large_offset", b(0x14, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE)},
		{"stream_data_blocked", b(0x15, 0x01, 0x80, 0x02, 0x00, 0x00)},
		{"stream_data_blocked_large_limits", b(0x15, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFD)},
		{"streams_blocked_bidir", b(0x16, 0x40, 0x64)},
		{"streams_blocked_unidir", b(0x17, 0x40, 0x64)},

		{"new_connection_id", b(0x18, 0x01, 0x00, 0x08, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
			0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7, 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF)},
		{"new_connection_id_alt", b(0x18, 0x41, 0x00, 0x00, 0x04, 0xCA, 0xFE, 0xBA, 0xBE,
			0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF)},

		{"stop_sending", b(0x05, 0x01, 0x10)},
		{"stop_sending_high_error", b(0x05, 0x01, 0x41, 0x00)},
		{"stop_sending_min_vals", b(0x05, 0x00, 0x00)},
		{"stop_sending_app_error_specific", b(0x05, 0x01, 0x41, 0x00)},

		{"challenge", b(0x1a, 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7)},
		{"path_challenge_alt_data", b(0x1a, 0xCA, 0xFE, 0xBA, 0xBE, 0xDE, 0xAD, 0xBE, 0xEF)},
		{"response", b(0x1b, 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7)},
		{"path_response_alt_data", b(0x1b, 0xFE, 0xED, 0xFA, 0xCE, 0xBA, 0xAD, 0xF0, 0x0D)},

		{"new_token", b(0x07, 0x08, 0xCD, 0xCD, 0xCD, 0xCD, 0xCD, 0xCD, 0xCD, 0xCD)},
		{"new_token_long", append(b(0x07, 0x40, 0x64), rep(0xCD, 100)...)},
		{"new_token_short", b(0x07, 0x00)},

		{"ack", b(0x02, 0x0A, 0x00, 0x00, 0x00)},
		{"ack_empty", b(0x02, 0x00, 0x00, 0x00, 0x00)},
		{"ack_multiple_ranges", b(0x02, 0x20, 0x02, 0x03, 0x02, 0x01, 0x04, 0x03, 0x01, 0x05, 0x0A)},
		{"ack_large_delay", b(0x02, 0x05, 0x7F, 0xFF, 0x00, 0x01)},
		{"ack_ecn", b(0x03, 0x10, 0x01, 0x00, 0x00, 0x41, 0x00, 0x42, 0x00, 0x43, 0x00)},
		{"ack_ecn_counts_high", b(0x03, 0x10, 0x01, 0x00, 0x00, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0x42, 0x00, 0x43, 0x00)},

		{"stream_min", b(0x08, 0x01, 'd', 'a', 't', 'a')},
		{"stream_max", b(0x0f, 0x01, 0x40, 0x20, 0x04, 'd', 'a', 't', 'a')},
		{"stream_no_offset_no_len_fin", b(0x09, 0x01, 'd', 'a', 't', 'a')},
		{"stream_offset_no_len_no_fin", b(0x0c, 0x01, 0x40, 0x20, 'd', 'a', 't', 'a')},
		{"stream_no_offset_len_no_fin", b(0x0a, 0x01, 0x04, 'd', 'a', 't', 'a')},
		{"stream_all_bits_set", b(0x0f, 0x01, 0x40, 0x20, 0x04, 'd', 'a', 't', 'a')},
		{"stream_zero_len_data", b(0x0a, 0x01, 0x00)},
		{"stream_max_offset_final", b(0x0d, 0x01, 0x52, 0x34, 'e', 'n', 'd')},

		{"crypto_hs", append(b(0x06, 0x00, 0x10), rep(0xA0, 16)...)},
		{"crypto_hs_alt", b(0x06, 0x40, 0x10, 0x08, 0xC0, 0xC1, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7)},
		{"crypto_zero_len", b(0x06, 0x00, 0x00)},
		{"crypto_large_offset", append(b(0x06, 0x50, 0x00, 0x05), []byte("dummy")...)},
		{"crypto_fragment1", append(b(0x06, 0x00, 0x05), []byte("Hello")...)},
		{"crypto_fragment2", append(b(0x06, 0x05, 0x05), []byte("World")...)},

		{"retire_connection_id", b(0x19, 0x01)},

		{"datagram", append(b(0x30), rep(0xA0, 16)...)},
		{"datagram_l", append(b(0x31, 0x10), rep(0xA0, 16)...)},

		{"handshake_done", b(0x1e)},

		{"ack_frequency", b(0xaf, 0x0A, 0x44, 0x20, 0x01)},

		{"path_abandon_0", pathExt(0x15228c00, 0x01, 0x00)},
		{"path_abandon_1", pathExt(0x15228c00, 0x01, 0x11)},
		{"path_available", pathExt(0x15228c04, 0x00, 0x0F)},
		{"path_backup", pathExt(0x15228c05, 0x00, 0x0F)},
		{"path_blocked", pathExtShort(0x15228c08, 0x11)},

		// --- known-bad variants, for deterministic test-targeting (spec.md §8 scenarios 3 & 4) ---
		{"bad_reset_stream_offset", b(0x04, 17, 1, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)},
		{"bad_reset_stream", b(0x04, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 1, 1)},
		{"bad_connection_close", b(0x1c, 0x80, 0x00, 0xCF, 0xFF, 0,
			0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, '1', '2', '3', '4', '5', '6', '7', '8', '9')},
		{"bad_application_close", b(0x1d, 0xCF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 'x')},
		{"bad_max_stream_stream", b(0x11, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00)},
		{"bad_max_streams_bidir", b(0x12, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)},
		{"bad_max_streams_unidir", b(0x13, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)},
		{"bad_new_connection_id_length", b(0x18, 0x01, 0x00, 0xFF, 0x01, 0x02)},
		{"bad_new_connection_id_retire", b(0x18, 0x01, 0xFF, 0x08, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
			0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7, 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF)},
		{"bad_stop_sending", b(0x05, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00)},
		{"bad_new_token", append(b(0x07, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE), rep(0xCD, 4)...)},
		{"bad_ack_range", b(0x02, 0x0A, 0x00, 0x01, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE)},
		// The canonical "ACK whose gap field is the maximum varint" used by
		// spec.md §8 scenario 3 (FRAME_ENCODING_ERROR assertion).
		{"bad_ack_gaps", b(0x02, 0x0A, 0x00, 0x02, 0x00, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0x00, 0x00)},
		{"bad_ack_blocks", b(0x02, 0x0A, 0x00, 0x01, 0x00, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE)},
		{"bad_crypto_hs", append(b(0x06, 0x00, 0xBF), rep(0xFF, 6)...)},
		{"bad_datagram", b(0x31, 0xBF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xA0, 0xA1)},
		{"stream_hang", b(0x0e, 0x01, 0x40, 0x00)},
		{"bad_abandon_0", pathExt(0x15228c00, 0xFF, 0x00)},
		{"bad_abandon_1", pathExtShort(0x15228c00, 0xFF)},
		{"bad_abandon_2", pathExt(0x15228c00, 0x01, 0xFF)},
	}

	return t
}

func b(bytes ...byte) []byte {
	out := make([]byte, len(bytes))
	copy(out, bytes)
	return out
}

func rep(v byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// pathExt builds the 4-byte extended-varint type prefix for a multipath
// extension frame followed by two single-byte fields, matching
// original_source's literal big-endian encoding of the draft's
// provisional 4-byte-wide frame-type codepoints.
func pathExt(frameType uint32, field1, field2 byte) []byte {
	return b(
		0x80|byte(frameType>>24), byte(frameType>>16), byte(frameType>>8), byte(frameType),
		field1, field2,
	)
}

func pathExtShort(frameType uint32, field1 byte) []byte {
	return b(
		0x80|byte(frameType>>24), byte(frameType>>16), byte(frameType>>8), byte(frameType),
		field1,
	)
}

func init() {
	byName = make(map[string]*Entry, len(Table))
	for i := range Table {
		byName[Table[i].Name] = &Table[i]
	}
}
