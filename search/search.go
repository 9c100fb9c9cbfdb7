// Package search trawls a local or object-store URI tree for scene
// directories ready to classify, using TileDB's VFS so the same code walks
// a filesystem, S3 bucket, or any other VFS-backed store without change.
package search

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// sceneMetadataFile is the sidecar that marks a directory as a scene; it
// must match fmask's own metadataFile constant.
const sceneMetadataFile = "metadata.json"

// trawl recursively matches pattern against file basenames under uri,
// returning the parent directory of every match.
func trawl(vfs *tiledb.VFS, pattern, uri string, items []string) ([]string, error) {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			return nil, err
		}
		if match {
			items = append(items, filepath.Dir(file))
		}
	}

	for _, dir := range dirs {
		items, err = trawl(vfs, pattern, dir, items)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

// FindScenes recursively searches uri for scene directories, identified by
// the presence of a metadata.json sidecar, and returns their URIs. configUri
// selects the TileDB config used to resolve the VFS backend (S3 credentials
// and the like); the empty string resolves to TileDB's own default config.
func FindScenes(uri, configUri string) ([]string, error) {
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
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}
	defer vfs.Free()

	return trawl(vfs, sceneMetadataFile, uri, make([]string, 0))
}
