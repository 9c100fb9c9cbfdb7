package fmask

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// SaturationPair holds a band's on-disk saturation sentinel together with
// the finite value the classifier substitutes for it before any spectral
// test runs.
type SaturationPair struct {
	Ref int16
	Max int16
}

// SceneSize carries the scene's row/column extent. L is lines (rows), S is
// samples (columns), matching the convention the teacher's ping/beam
// metadata uses for along/across-track extents.
type SceneSize struct {
	L int
	S int
}

// Metadata contains the radiometric and geometric information a scene
// carries: per-band saturation sentinels, the thermal saturation pair, the
// reflective band count and scene dimensions, and the acquisition date
// parsed from the producer's day-of-year timestamp. Acquisition date never
// influences classification, and it is not written to the output store.
type Metadata struct {
	SatuRef          [NumReflectiveBands]int16
	SatuMax          [NumReflectiveBands]int16
	ThermSatuRef     int16
	ThermSatuMax     int16
	Nband            int
	Size             SceneSize
	AcquisitionDate  time.Time
	CloudProbThresh  float32
}

// sceneMetadataDoc mirrors the on-disk metadata.json sidecar next to a
// scene's band rasters.
type sceneMetadataDoc struct {
	SatuValueRef     [NumReflectiveBands]int16 `json:"satu_value_ref"`
	SatuValueMax     [NumReflectiveBands]int16 `json:"satu_value_max"`
	ThermSatuRef     int16                     `json:"therm_satu_value_ref"`
	ThermSatuMax     int16                     `json:"therm_satu_value_max"`
	Nband            int                       `json:"nband"`
	Lines            int                       `json:"lines"`
	Samples          int                       `json:"samples"`
	AcquisitionDate  string                    `json:"acquisition_date"`
	CloudProbThresh  float32                   `json:"cloud_prob_threshold"`
}

// DecodeMetadata constructs a Metadata from the raw bytes of a scene's
// metadata.json sidecar.
func DecodeMetadata(buffer []byte) (Metadata, error) {
	var doc sceneMetadataDoc

	if err := json.Unmarshal(buffer, &doc); err != nil {
		return Metadata{}, err
	}

	md := Metadata{
		SatuRef:         doc.SatuValueRef,
		SatuMax:         doc.SatuValueMax,
		ThermSatuRef:    doc.ThermSatuRef,
		ThermSatuMax:    doc.ThermSatuMax,
		Nband:           doc.Nband,
		Size:            SceneSize{L: doc.Lines, S: doc.Samples},
		CloudProbThresh: doc.CloudProbThresh,
	}

	if doc.AcquisitionDate != "" {
		date, err := ParseAcquisitionDate(doc.AcquisitionDate)
		if err != nil {
			return Metadata{}, err
		}
		md.AcquisitionDate = date
	}

	return md, nil
}

// ParseAcquisitionDate decodes a day-of-year acquisition timestamp of the
// form "yyyy/ddd hh:mm:ss" (e.g. "2020/174 10:32:07"), the same format
// earth-observation producers stamp on their processing-parameters
// metadata. The calendar conversion from day-of-year to month/day follows
// the Gregorian leap-year rule.
func ParseAcquisitionDate(value string) (time.Time, error) {
	parts := strings.SplitN(value, " ", 2)

	datePart := strings.SplitN(parts[0], "/", 2)
	year, err := strconv.Atoi(datePart[0])
	if err != nil {
		return time.Time{}, err
	}
	doy, err := strconv.Atoi(datePart[1])
	if err != nil {
		return time.Time{}, err
	}

	month, day := julian.DayOfYearToCalendar(doy, julian.LeapYearGregorian(year))

	hour, min, sec := 0, 0, 0
	if len(parts) == 2 {
		timeParts := strings.Split(parts[1], ":")
		hour, _ = strconv.Atoi(timeParts[0])
		if len(timeParts) > 1 {
			min, _ = strconv.Atoi(timeParts[1])
		}
		if len(timeParts) > 2 {
			sec, _ = strconv.Atoi(timeParts[2])
		}
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), nil
}
