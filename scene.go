package fmask

import (
	"bytes"
	"encoding/binary"
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// bandFile is the conventional on-disk name for each reflective band,
// relative to a scene's directory/prefix URI.
var bandFile = [NumReflectiveBands]string{
	Blue:  "blue.img",
	Green: "green.img",
	Red:   "red.img",
	Nir:   "nir.img",
	Swir1: "swir1.img",
	Swir2: "swir2.img",
}

const thermFile = "thermal.img"
const metadataFile = "metadata.json"

// Input is the Band Accessor: it exposes one row at a time of each
// reflective band and the thermal band, in native int16 units, backed by
// per-band TileDB VFS streams. Buffers returned by GetInputLine and
// GetInputThermLine are only valid until the next read of the same line.
type Input struct {
	Uri      string
	Metadata Metadata

	config *tiledb.Config
	ctx    *tiledb.Context
	vfs    *tiledb.VFS

	bandHandlers  [NumReflectiveBands]*tiledb.VFSfh
	bandStreams   [NumReflectiveBands]Stream
	thermHandler  *tiledb.VFSfh
	thermStream   Stream

	rowBuf  [NumReflectiveBands][]int16
	thermBuf []int16
}

// OpenScene opens a scene's band rasters and metadata sidecar for streamed
// row-by-row IO and constructs an Input. inMemory buffers each band's full
// segment in memory up front rather than re-seeking the VFS handle on every
// row; this trades memory for fewer round trips against object storage.
func OpenScene(sceneUri, configUri string, inMemory bool) (*Input, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if configUri == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configUri)
	}
	if err != nil {
		return nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}

	in := &Input{Uri: sceneUri, config: config, ctx: ctx, vfs: vfs}

	mdHandler, err := vfs.Open(filepath.Join(sceneUri, metadataFile), tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}
	defer mdHandler.Close()

	mdSize, err := vfs.FileSize(filepath.Join(sceneUri, metadataFile))
	if err != nil {
		return nil, err
	}
	mdBuf := make([]byte, mdSize)
	if _, err := mdHandler.Read(mdBuf); err != nil {
		return nil, err
	}
	md, err := DecodeMetadata(mdBuf)
	if err != nil {
		return nil, err
	}
	in.Metadata = md

	for b := Band(0); b < NumReflectiveBands; b++ {
		path := filepath.Join(sceneUri, bandFile[b])
		handler, err := vfs.Open(path, tiledb.TILEDB_VFS_READ)
		if err != nil {
			return nil, err
		}
		size, err := vfs.FileSize(path)
		if err != nil {
			return nil, err
		}
		stream, err := GenericStream(handler, size, inMemory)
		if err != nil {
			return nil, err
		}
		in.bandHandlers[b] = handler
		in.bandStreams[b] = stream
		in.rowBuf[b] = make([]int16, md.Size.S)
	}

	thermPath := filepath.Join(sceneUri, thermFile)
	thermHandler, err := vfs.Open(thermPath, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}
	thermSize, err := vfs.FileSize(thermPath)
	if err != nil {
		return nil, err
	}
	thermStream, err := GenericStream(thermHandler, thermSize, inMemory)
	if err != nil {
		return nil, err
	}
	in.thermHandler = thermHandler
	in.thermStream = thermStream
	in.thermBuf = make([]int16, md.Size.S)

	return in, nil
}

// NewMemoryInput builds an Input backed entirely by in-memory byte streams,
// with no TileDB VFS handles to close. Rows are encoded big-endian, the
// same wire format OpenScene expects on disk; useful for tests and for
// callers who already hold a decoded scene in memory.
func NewMemoryInput(md Metadata, bands [NumReflectiveBands][]int16, therm []int16) *Input {
	in := &Input{Metadata: md}

	encode := func(samples []int16) Stream {
		buf := make([]byte, len(samples)*2)
		for i, s := range samples {
			binary.BigEndian.PutUint16(buf[i*2:i*2+2], uint16(s))
		}
		return bytes.NewReader(buf)
	}

	for b := Band(0); b < NumReflectiveBands; b++ {
		in.bandStreams[b] = encode(bands[b])
		in.rowBuf[b] = make([]int16, md.Size.S)
	}
	in.thermStream = encode(therm)
	in.thermBuf = make([]int16, md.Size.S)

	return in
}

// Close releases the open TileDB VFS handles and context.
func (in *Input) Close() {
	for b := Band(0); b < NumReflectiveBands; b++ {
		if in.bandHandlers[b] != nil {
			in.bandHandlers[b].Close()
		}
	}
	if in.thermHandler != nil {
		in.thermHandler.Close()
	}
	if in.vfs != nil {
		in.vfs.Free()
	}
	if in.ctx != nil {
		in.ctx.Free()
	}
	if in.config != nil {
		in.config.Free()
	}
}

// GetInputLine populates the row buffer for the given reflective band with
// the samples of the requested row, in native scaled-reflectance units. The
// buffer is only valid until the next read of this band.
func (in *Input) GetInputLine(band Band, row int) ([]int16, error) {
	stream := in.bandStreams[band]
	offset := int64(row) * int64(in.Metadata.Size.S) * 2
	if _, err := stream.Seek(offset, 0); err != nil {
		return nil, err
	}
	if err := readInt16Row(stream, in.rowBuf[band]); err != nil {
		return nil, err
	}
	return in.rowBuf[band], nil
}

// GetInputThermLine populates the thermal row buffer with the requested
// row, in hundredths of a degree Celsius.
func (in *Input) GetInputThermLine(row int) ([]int16, error) {
	offset := int64(row) * int64(in.Metadata.Size.S) * 2
	if _, err := in.thermStream.Seek(offset, 0); err != nil {
		return nil, err
	}
	if err := readInt16Row(in.thermStream, in.thermBuf); err != nil {
		return nil, err
	}
	return in.thermBuf, nil
}
