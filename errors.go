package fmask

import (
	"errors"
)

var ErrIO = errors.New("Error Reading Input Band Data")
var ErrAlloc = errors.New("Error Allocating Transient Buffer")
var ErrFill = errors.New("Error Running Local-Minima Fill")
var ErrPercentile = errors.New("Error Calling Percentile Estimator")
var ErrAllCloud = errors.New("Scene Has No Clear-Sky Pixels")
var ErrCreateMaskTdb = errors.New("Error Creating Mask TileDB Array")
var ErrWriteMaskTdb = errors.New("Error Writing Mask TileDB Array")
var ErrCreateAttributeTdb = errors.New("Error Creating Attribute For TileDB Array")
var ErrCreateSchemaTdb = errors.New("Error Creating TileDB Schema")
var ErrCreateDimTdb = errors.New("Error Creating TileDB Dimension")
var ErrAddFilters = errors.New("Error Adding Filter To FilterList")
var ErrFiltList = errors.New("Error Creating TileDB Filter List")
var ErrNewAttr = errors.New("Error Creating TileDB Attribute")
var ErrNewFilt = errors.New("Error Creating TileDB Filter")
var ErrSetFiltList = errors.New("Error Setting TileDB Filter List")
var ErrAddAttr = errors.New("Error Adding TileDB Attribute")
var ErrZstdFilt = errors.New("Error Creating TileDB ZStandard Filter")
var ErrSetBuff = errors.New("Error Setting TileDB Buffer")
