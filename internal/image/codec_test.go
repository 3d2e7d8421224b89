package image

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arrowXBM = `#define arrow_width 10
#define arrow_height 3
static unsigned char arrow_bits[] = {
   0x01, 0x02, 0xff, 0x03, 0x00, 0x00 };
`

func TestDecodeXBM(t *testing.T) {
	pic, err := Decode(strings.NewReader(arrowXBM), "arrow.xbm")
	require.NoError(t, err)
	assert.Equal(t, "xbm", pic.Format)
	require.Equal(t, image.Rect(0, 0, 10, 3), pic.Bounds())

	black := func(x, y int) bool {
		r, _, _, _ := pic.Image.At(x, y).RGBA()
		return r == 0
	}
	// Row 0: bit 0 of byte 0 and bit 1 of byte 1 (x=9).
	assert.True(t, black(0, 0))
	assert.False(t, black(1, 0))
	assert.True(t, black(9, 0))
	// Row 1: all ten bits set.
	for x := 0; x < 10; x++ {
		assert.Truef(t, black(x, 1), "x=%d", x)
	}
	// Row 2: empty.
	assert.False(t, black(4, 2))
}

func TestDecodeX10XBM(t *testing.T) {
	src := `#define dot_width 2
#define dot_height 2
static short dot_bits[] = {
   0x0001, 0x0002};
`
	pic, err := Decode(strings.NewReader(src), "dot.xbm")
	require.NoError(t, err)

	r, _, _, _ := pic.Image.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	r, _, _, _ = pic.Image.At(1, 1).RGBA()
	assert.Equal(t, uint32(0), r)
	r, _, _, _ = pic.Image.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestDecodeXBMTooShort(t *testing.T) {
	src := "#define a_width 8\n#define a_height 4\nstatic char a_bits[] = { 0x01 };\n"
	_, err := Decode(strings.NewReader(src), "a.xbm")
	require.Error(t, err)
}

const flagXPM = `/* XPM */
static char * flag_xpm[] = {
/* width height ncolors cpp */
"3 2 3 1",
"  c None",
"r c #FF0000",
"b c blue",
"r b",
"bbr"};
`

func TestDecodeXPM(t *testing.T) {
	pic, err := Decode(strings.NewReader(flagXPM), "flag.xpm")
	require.NoError(t, err)
	assert.Equal(t, "xpm", pic.Format)
	require.Equal(t, image.Rect(0, 0, 3, 2), pic.Bounds())

	nrgba, ok := pic.Image.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, nrgba.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, nrgba.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, nrgba.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, nrgba.NRGBAAt(2, 1))
}

func TestParseXPMColor(t *testing.T) {
	for in, want := range map[string]color.NRGBA{
		"#fff":          {0xff, 0xff, 0xff, 0xff},
		"#102030":       {0x10, 0x20, 0x30, 0xff},
		"#FFFF80800000": {0xff, 0x80, 0x00, 0xff},
		"None":          {},
		"Black":         {0, 0, 0, 0xff},
	} {
		got, err := parseXPMColor(in)
		require.NoErrorf(t, err, "%q", in)
		assert.Equalf(t, want, got, "%q", in)
	}

	_, err := parseXPMColor("#12")
	assert.Error(t, err)
	_, err = parseXPMColor("papayawhip")
	assert.Error(t, err)
}

func TestDecodeXPMUndefinedPixel(t *testing.T) {
	src := "/* XPM */\nstatic char *x[] = {\n\"1 1 1 1\",\n\"a c #000000\",\n\"z\"};\n"
	_, err := Decode(strings.NewReader(src), "x.xpm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined pixel")
}

func TestDecodeRejectsHugeDimensions(t *testing.T) {
	for name, src := range map[string]string{
		"wide.xbm":     "#define a_width 4611686018427387904\n#define a_height 2\nstatic char a_bits[] = { 0x01 };\n",
		"overflow.xbm": "#define a_width 8\n#define a_height 99999999999999999999\nstatic char a_bits[] = { 0x01 };\n",
		"colors.xpm":   "/* XPM */\nstatic char *x[] = {\n\"1 1 9223372036854775807 1\",\n\"a c #000000\",\n\"a\"};\n",
		"wide.xpm":     "/* XPM */\nstatic char *x[] = {\n\"4611686018427387904 1 1 4\",\n\"aaaa c #000000\",\n\"aaaa\"};\n",
	} {
		_, err := Decode(strings.NewReader(src), name)
		assert.Errorf(t, err, "%s should be rejected", name)
	}
}

func TestDecodeXBMLargeSizeWithoutData(t *testing.T) {
	// Within the size limit but far more rows than the array holds.
	src := "#define a_width 65536\n#define a_height 65536\nstatic char a_bits[] = { 0x01, 0x02 };\n"
	_, err := Decode(strings.NewReader(src), "big.xbm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need 65536 rows")
}

func TestDecodeXPMShortRowsBeforeAllocating(t *testing.T) {
	src := "/* XPM */\nstatic char *x[] = {\n\"65536 2 1 1\",\n\"a c #000000\",\n\"aa\",\n\"aa\"};\n"
	_, err := Decode(strings.NewReader(src), "short.xpm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 too short")
}

func TestDecodeXPMMissingRows(t *testing.T) {
	src := "/* XPM */\nstatic char *x[] = {\n\"1 3 1 1\",\n\"a c #000000\",\n\"a\"};\n"
	_, err := Decode(strings.NewReader(src), "rows.xpm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need 1 colours and 3 rows")
}
