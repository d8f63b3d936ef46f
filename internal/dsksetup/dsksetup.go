// Public domain.

// Package dsksetup renders mkdsk setup files.
//
// A setup file is a SPICE text kernel whose data section tells mkdsk how to
// build a DSK from plate data.  Only five values normally vary from one
// shape model to the next; those are the Params.  The remaining values are
// fixed by Default and can be changed through the fields of Setup.
package dsksetup

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// Params are the values substituted literally into a setup file.
type Params struct {
	Surface string // SURFACE_NAME
	Center  string // CENTER_NAME
	Frame   string // REF_FRAME_NAME
	LSK     string // LEAPSECONDS_FILE
	Kernels string // KERNELS_TO_LOAD
}

// Setup is the full content of a setup file.
type Setup struct {
	Params

	// Coverage window, START_TIME and STOP_TIME.
	Start, Stop time.Time

	// Coverage bounds in the latitudinal coordinate system.
	MinLat, MaxLat unit.Angle
	MinLon, MaxLon unit.Angle

	DataClass        int
	DataType         int
	PlateType        int
	FineVoxelScale   float64
	CoarseVoxelScale int
}

// Default returns a Setup with the standard fixed values: a 1950 to 2050
// coverage window, global latitudinal coverage, data class 2, type 2 plates
// read as plate type 3 (vertex and plate records), and voxel scales of 4.0
// and 5.
func Default(p Params) Setup {
	return Setup{
		Params:           p,
		Start:            time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		Stop:             time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC),
		MinLat:           unit.AngleFromDeg(-90),
		MaxLat:           unit.AngleFromDeg(90),
		MinLon:           unit.AngleFromDeg(-180),
		MaxLon:           unit.AngleFromDeg(180),
		DataClass:        2,
		DataType:         2,
		PlateType:        3,
		FineVoxelScale:   4,
		CoarseVoxelScale: 5,
	}
}

// Render returns the text of the default setup for p.
func Render(p Params) string {
	return Default(p).Render()
}

const text = `\begindata

COMMENT_FILE        = ' '
SURFACE_NAME        = '{{.Surface}}'
CENTER_NAME         = '{{.Center}}'
REF_FRAME_NAME      = '{{.Frame}}'
START_TIME          = '{{time .Start}}'
STOP_TIME           = '{{time .Stop}}'
DATA_CLASS          = {{.DataClass}}
INPUT_DATA_UNITS    = ( 'ANGLES    = DEGREES'
                        'DISTANCES = KILOMETERS' )
COORDINATE_SYSTEM   = 'LATITUDINAL'
MINIMUM_LATITUDE    = {{deg 3 .MinLat}}
MAXIMUM_LATITUDE    = {{deg 3 .MaxLat}}
MINIMUM_LONGITUDE   = {{deg 4 .MinLon}}
MAXIMUM_LONGITUDE   = {{deg 4 .MaxLon}}
DATA_TYPE           = {{.DataType}}
PLATE_TYPE          = {{.PlateType}}
FINE_VOXEL_SCALE    = {{real .FineVoxelScale}}
COARSE_VOXEL_SCALE  = {{.CoarseVoxelScale}}

LEAPSECONDS_FILE    = '{{.LSK}}'
KERNELS_TO_LOAD = ('{{.Kernels}}' )
`

var tmpl = template.Must(template.New("mkdsksetup").Funcs(template.FuncMap{
	"time": FormatTime,
	"deg":  formatDeg,
	"real": formatReal,
}).Parse(text))

// Render returns the setup file text.
func (s Setup) Render() string {
	var b bytes.Buffer
	// the template has no failure paths for a Setup value
	if err := tmpl.Execute(&b, s); err != nil {
		panic(err)
	}
	return b.String()
}

// WriteFile writes the setup file text to file name.
func (s Setup) WriteFile(name string) error {
	return os.WriteFile(name, []byte(s.Render()), 0o644)
}

// Bounds describes the coverage bounds in sexagesimal notation.
func (s Setup) Bounds() string {
	return fmt.Sprintf("lat %s to %s, lon %s to %s",
		sexa.FmtAngle(s.MinLat), sexa.FmtAngle(s.MaxLat),
		sexa.FmtAngle(s.MinLon), sexa.FmtAngle(s.MaxLon))
}

// FormatTime formats t as a SPICE UTC calendar string, for example
// 1950-JAN-1/00:00:00.
func FormatTime(t time.Time) string {
	return strings.ToUpper(t.UTC().Format("2006-Jan-2/15:04:05"))
}

// ParseTime parses a coverage time.  Accepted forms are RFC 3339, a bare
// date 2006-01-02, and a Julian date written as "JD 2451545.0".
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if f := strings.Fields(s); len(f) == 2 && strings.EqualFold(f[0], "JD") {
		jd, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid Julian date %q: %w", s, err)
		}
		return julian.JDToTime(jd).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", s)
	}
	return t, nil
}

// formatDeg writes an angle in whole or fractional degrees, right aligned
// in width w.  Rounding to nanodegrees hides radian conversion noise.
func formatDeg(w int, a unit.Angle) string {
	d := math.Round(a.Deg()*1e9) / 1e9
	return fmt.Sprintf("%*s", w, strconv.FormatFloat(d, 'f', -1, 64))
}

// formatReal writes a float so the text kernel reader sees a real number.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
