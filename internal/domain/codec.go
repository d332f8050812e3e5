package domain

import "strconv"

// Wire formats, fixed by the external interface:
//
//	telemetry sample: timestamp/X/Y/Z/R  (decimal, or NaN for invalid axes)
//	batch payload:    samples joined by '\n', no trailing newline
//	result payload:   timestamp/CATEGORY/VERB/AXIS-or-ALL/OUTCOME/detail

// Separator delimits fields in every wire message.
const Separator = '/'

// naN is the literal emitted for an axis whose validity bit is unset.
const naN = "NaN"

// AppendSample appends the wire form of one sample to dst and returns the
// extended slice. It allocates only when dst lacks capacity, keeping the
// publisher's encode loop allocation-free in steady state.
func AppendSample(dst []byte, s Sample) []byte {
	dst = strconv.AppendInt(dst, s.Timestamp, 10)
	for _, a := range Axes() {
		dst = append(dst, Separator)
		if s.IsValid(a) {
			dst = strconv.AppendInt(dst, int64(s.Positions[a]), 10)
		} else {
			dst = append(dst, naN...)
		}
	}
	return dst
}

// AppendBatch appends the wire form of a telemetry batch to dst: samples in
// order, newline-separated, no trailing newline.
func AppendBatch(dst []byte, batch []Sample) []byte {
	for i, s := range batch {
		if i > 0 {
			dst = append(dst, '\n')
		}
		dst = AppendSample(dst, s)
	}
	return dst
}
