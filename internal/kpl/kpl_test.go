// Public domain.

package kpl_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/soniakeys/spicer/internal/kpl"
)

const metaKernel = `KPL/MK

   Meta-kernel for generic kernels.

   \begindata

      PATH_VALUES     = ( '/data/naif',
                          '/data/local' )
      PATH_SYMBOLS    = ( 'NAIF' 'LOCAL' )

      KERNELS_TO_LOAD = ( '$NAIF/lsk/naif0012.tls'
                          '$NAIF/pck/pck00010.tpc' )
      KERNELS_TO_LOAD += '$LOCAL/owner''s.bsp'

   \begintext

      KERNELS_TO_LOAD = ( 'ignored.bsp' )

   \begindata
      DELTET/DELTA_T_A = 32.184
      DELTET/K         = 1.657D-3
      BODY399_RADII    = ( 6378.1366, 6378.1366, 6356.7519 )
`

func TestParse(t *testing.T) {
	v, err := kpl.Parse(strings.NewReader(metaKernel))
	if err != nil {
		t.Fatal(err)
	}
	want := kpl.Vars{
		"PATH_VALUES":  {Strings: []string{"/data/naif", "/data/local"}},
		"PATH_SYMBOLS": {Strings: []string{"NAIF", "LOCAL"}},
		"KERNELS_TO_LOAD": {Strings: []string{
			"$NAIF/lsk/naif0012.tls",
			"$NAIF/pck/pck00010.tpc",
			"$LOCAL/owner's.bsp",
		}},
		"DELTET/DELTA_T_A": {Numbers: []float64{32.184}},
		"DELTET/K":         {Numbers: []float64{1.657e-3}},
		"BODY399_RADII":    {Numbers: []float64{6378.1366, 6378.1366, 6356.7519}},
	}
	if d := cmp.Diff(want, v); d != "" {
		t.Fatalf("vars mismatch (-want +got):\n%s", d)
	}
}

// data section of naif0012.tls, shortened
const leapseconds = `KPL/LSK

\begindata

DELTET/DELTA_T_A       =   32.184
DELTET/K               =    1.657D-3
DELTET/EB              =    1.671D-2
DELTET/M               = (  6.239996D0   1.99096871D-7 )

DELTET/DELTA_AT        = ( 10,   @1972-JAN-1
                           11,   @1972-JUL-1
                           12,   @1973-JAN-1
                           36,   @2015-JUL-1
                           37,   @2017-JAN-1 )

\begintext
`

func TestParseLeapseconds(t *testing.T) {
	v, err := kpl.Parse(strings.NewReader(leapseconds))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{
		10, -883656000,
		11, -867931200,
		12, -852033600,
		36, 488980800,
		37, 536500800,
	}
	if d := cmp.Diff(want, v.Numbers("DELTET/DELTA_AT")); d != "" {
		t.Fatalf("DELTA_AT mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]float64{6.239996, 1.99096871e-7}, v.Numbers("DELTET/M")); d != "" {
		t.Fatalf("DELTET/M mismatch (-want +got):\n%s", d)
	}
}

func TestParseDate(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
	}{
		{"2000-JAN-1/12:00:00", 0},
		{"2000-jan-01", -43200},
		{"1-JAN-2000/12:00:01", 1},
		{"2000-01-02T12:00", 86400},
		{"2000-JAN-1/12:00:00.5", .5},
	} {
		got, err := kpl.ParseDate(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := kpl.ParseDate("2000-FOO-1"); err == nil {
		t.Error("expected error for bad month")
	}
}

var errorTestCases = []struct {
	name, in string
}{
	{"no operator", "\\begindata\nX 3\n"},
	{"mixed types", "\\begindata\nX = ( 1 'a' )\n"},
	{"bad number", "\\begindata\nX = 1.2.3\n"},
	{"unterminated string", "\\begindata\nX = 'abc\n"},
	{"unterminated list", "\\begindata\nX = ( 1 2\n"},
	{"list cut by begintext", "\\begindata\nX = ( 1 2\n\\begintext\n"},
	{"append changes type", "\\begindata\nX = 1\nX += 'a'\n"},
	{"missing name", "\\begindata\n= 1\n"},
	{"bad date", "\\begindata\nX = ( 10, @1972-FOO-1 )\n"},
}

func TestParseErrors(t *testing.T) {
	for _, tc := range errorTestCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := kpl.Parse(strings.NewReader(tc.in))
			var se *kpl.SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want SyntaxError", err)
			}
		})
	}
}

func TestParseCommentOnly(t *testing.T) {
	v, err := kpl.Parse(strings.NewReader("KPL/FK\nX = ( 'not data' \n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 0 {
		t.Fatalf("got %v", v)
	}
}

func ExampleVars_Strings() {
	v, _ := kpl.Parse(strings.NewReader(`\begindata
SURFACE_NAME = 'MU69'
`))
	fmt.Println(v.Strings("SURFACE_NAME"), v.Strings("CENTER_NAME") == nil)
	// Output:
	// [MU69] true
}
