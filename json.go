package fmask

import (
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// WriteJson serialises data to a JSON file at fileUri, which may be local or
// on an object store such as S3 depending on the TileDB VFS backend
// resolved for that URI.
func WriteJson(fileUri, configUri string, data any) (int, error) {
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
		return 0, err
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return 0, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return 0, err
	}
	defer vfs.Free()

	// the vfs api auto checks for a file's existence and removes it if we
	// are wanting to write.
	stream, err := vfs.Open(fileUri, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return 0, err
	}

	bytesWritten, err := stream.Write(jsn)
	if err != nil {
		return 0, err
	}

	return bytesWritten, nil
}

// JsonDumps constructs a JSON string of the supplied data.
func JsonDumps(data any) (string, error) {
	jsn, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return string(jsn), nil
}

// JsonIndentDumps constructs a json string of the supplied data using an
// indentation of four spaces.
func JsonIndentDumps(data any) (string, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}

	return string(jsn), nil
}
