package fmask

import (
	"bytes"
	"encoding/binary"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream caters for a generic reader type so that we can handle both
// a stream of data from a file on disk or object store, as well as
// an in-memory byte stream.
// The scene reader deals with either a *tiledb.VFSfh or *bytes.Reader,
// and all we care about are two methods, Read and Seek,
// which both implement.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// GenericStream buffers a band's whole byte segment into memory when inmem
// is set, otherwise it hands back the raw VFS handle for on-demand reads.
func GenericStream(stream *tiledb.VFSfh, size uint64, inmem bool) (Stream, error) {
	if inmem {
		buffer := make([]byte, size)
		err := binary.Read(stream, binary.BigEndian, &buffer)
		if err != nil {
			return nil, err
		}
		reader := bytes.NewReader(buffer)
		return reader, nil
	} else {
		return stream, nil
	}
}

// Tell is a small helper function for telling the current position within a
// binary stream opened for reading.
func Tell(stream Stream) (int64, error) {
	pos, err := stream.Seek(0, 1)

	return pos, err
}
