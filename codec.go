package fmask

import (
	"encoding/binary"
)

// readInt16Row decodes len(dst) big-endian int16 samples from stream into
// dst, mirroring the teacher's seek-then-binary.Read idiom for pulling a
// fixed-size record out of a byte stream.
func readInt16Row(stream Stream, dst []int16) error {
	raw := make([]byte, len(dst)*2)
	if _, err := stream.Read(raw); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int16(binary.BigEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return nil
}

// remapSaturation rewrites every sample in buf equal to the on-disk
// saturation sentinel ref with the finite value max, in place. Applied to
// each reflective band and to the thermal band before any spectral test
// sees the row.
func remapSaturation(buf []int16, ref, max int16) {
	for i, v := range buf {
		if v == ref {
			buf[i] = max
		}
	}
}
