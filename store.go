package fmask

import (
	"errors"
	"math"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// maskRecord is the on-disk representation of a classification result: one
// byte per pixel for the flag bitmask, one byte per pixel for the
// confidence level, both row-major over the scene's (row, col) domain.
type maskRecord struct {
	PixelMask []uint8 `tiledb:"dtype=uint8,ftype=attr" filters:"bysh,zstd(level=16)"`
	ConfMask  []uint8 `tiledb:"dtype=uint8,ftype=attr" filters:"bysh,zstd(level=16)"`
}

// schemaAttrs walks the exported fields of t (a pointer to a struct tagged
// with `tiledb` and `filters`) and attaches a matching TileDB attribute to
// schema for every field whose ftype is not "dim".
func schemaAttrs(t any, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	var (
		field_tdb_defs map[string]stgpsr.Definition
		def            stgpsr.Definition
		status         bool
	)
	values := reflect.ValueOf(t).Elem()
	types := values.Type()
	filt_defs, _ := stgpsr.ParseStruct(t, "filters")
	tdb_defs, _ := stgpsr.ParseStruct(t, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		field_filt_defs := filt_defs[name]

		field_tdb_defs = make(map[string]stgpsr.Definition)
		for _, v := range tdb_defs[name] {
			field_tdb_defs[v.Name()] = v
		}

		def, status = field_tdb_defs["ftype"]
		if !status {
			return errors.Join(ErrCreateAttributeTdb, errors.New("ftype tag not found"))
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			continue
		}

		if err := CreateAttr(name, field_filt_defs, field_tdb_defs, schema, ctx); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}
	return nil
}

// maskDenseSchema builds a dense, row-major (ROW, COL) TileDB array schema
// sized to a scene of nrows x ncols pixels, holding the PixelMask and
// ConfMask attributes.
func maskDenseSchema(ctx *tiledb.Context, nrows, ncols int) (*tiledb.ArraySchema, error) {
	row_tile := uint64(math.Min(float64(nrows), 512))
	col_tile := uint64(math.Min(float64(ncols), 512))

	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer domain.Free()

	row_dim, err := tiledb.NewDimension(ctx, "ROW", tiledb.TILEDB_UINT64, []uint64{0, uint64(nrows - 1)}, row_tile)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer row_dim.Free()

	col_dim, err := tiledb.NewDimension(ctx, "COL", tiledb.TILEDB_UINT64, []uint64{0, uint64(ncols - 1)}, col_tile)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer col_dim.Free()

	if err := domain.AddDimensions(row_dim, col_dim); err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schemaAttrs(&maskRecord{}, schema, ctx); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.Check(); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	return schema, nil
}

// Store persists classification results (pixel and confidence masks) to a
// TileDB array, using the config resolved from configUri (the empty string
// resolves to TileDB's own default config).
type Store struct {
	configUri string
}

// NewStore constructs a Store that resolves its TileDB config from configUri.
func NewStore(configUri string) *Store {
	return &Store{configUri: configUri}
}

func (s *Store) newContext() (*tiledb.Config, *tiledb.Context, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if s.configUri == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(s.configUri)
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		config.Free()
		return nil, nil, err
	}

	return config, ctx, nil
}

// WriteMasks creates a dense TileDB array at arrayUri sized to the scene's
// row/col domain and writes the pixel and confidence masks to it. The two
// masks must be the same length, exactly nrows*ncols.
func (s *Store) WriteMasks(arrayUri string, nrows, ncols int, pixelMask []PixelFlag, confMask []Confidence) error {
	config, ctx, err := s.newContext()
	if err != nil {
		return err
	}
	defer config.Free()
	defer ctx.Free()

	schema, err := maskDenseSchema(ctx, nrows, ncols)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, arrayUri)
	if err != nil {
		return errors.Join(ErrCreateMaskTdb, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateMaskTdb, err)
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWriteMaskTdb, err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteMaskTdb, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteMaskTdb, err)
	}

	rec := &maskRecord{
		PixelMask: toBytes(pixelMask),
		ConfMask:  toConfBytes(confMask),
	}

	if err := setStructFieldBuffers(query, rec); err != nil {
		return errors.Join(ErrWriteMaskTdb, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteMaskTdb, err)
	}

	if err := query.Finalize(); err != nil {
		return errors.Join(ErrWriteMaskTdb, err)
	}

	return nil
}

// WriteStatistics attaches scene-level summary statistics as JSON-encoded
// metadata on an already-written mask array.
func (s *Store) WriteStatistics(arrayUri string, stats Statistics) error {
	_, ctx, err := s.newContext()
	if err != nil {
		return err
	}
	defer ctx.Free()

	return WriteArrayMetadata(ctx, arrayUri, "statistics", stats)
}

func toBytes(flags []PixelFlag) []uint8 {
	out := make([]uint8, len(flags))
	for i, v := range flags {
		out[i] = uint8(v)
	}
	return out
}

func toConfBytes(confs []Confidence) []uint8 {
	out := make([]uint8, len(confs))
	for i, v := range confs {
		out[i] = uint8(v)
	}
	return out
}
