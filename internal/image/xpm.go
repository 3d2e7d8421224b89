package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// XPM (version 3) files are C source holding an array of strings: a
// "width height ncolors cpp" header, ncolors colour definitions and the
// pixel rows.
func init() {
	image.RegisterFormat("xpm", "/* XPM */", decodeXPM, decodeXPMConfig)
}

var errXPMHeader = errors.New("xpm: bad header")

const (
	maxXPMColors        = 1 << 20
	maxXPMCharsPerPixel = 8
)

// Only the X11 names likely to appear in icon files are known.
var xpmNamedColors = map[string]color.NRGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"green":   {0x00, 0xff, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"gray":    {0xbe, 0xbe, 0xbe, 0xff},
	"grey":    {0xbe, 0xbe, 0xbe, 0xff},
}

type xpmHeader struct {
	width, height, ncolors, cpp int
}

// xpmStrings returns the contents of every double-quoted string in src,
// skipping C comments.
func xpmStrings(src string) []string {
	var out []string
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return out
			}
			i += end + 3
		case src[i] == '"':
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				return out
			}
			out = append(out, src[i+1:i+1+end])
			i += end + 1
		}
	}
	return out
}

func parseXPMHeader(s string) (xpmHeader, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return xpmHeader{}, errXPMHeader
	}
	limits := [4]int{maxDimension, maxDimension, maxXPMColors, maxXPMCharsPerPixel}
	var vals [4]int
	for i := range vals {
		n, err := strconv.Atoi(fields[i])
		if err != nil || n <= 0 || n > limits[i] {
			return xpmHeader{}, errXPMHeader
		}
		vals[i] = n
	}
	return xpmHeader{width: vals[0], height: vals[1], ncolors: vals[2], cpp: vals[3]}, nil
}

func readXPM(r io.Reader) (xpmHeader, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return xpmHeader{}, nil, fmt.Errorf("xpm: read: %w", err)
	}
	strs := xpmStrings(string(data))
	if len(strs) == 0 {
		return xpmHeader{}, nil, errXPMHeader
	}
	h, err := parseXPMHeader(strs[0])
	if err != nil {
		return h, nil, err
	}
	return h, strs[1:], nil
}

func decodeXPMConfig(r io.Reader) (image.Config, error) {
	h, _, err := readXPM(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.width, Height: h.height}, nil
}

// parseXPMColor parses the value of a "c" key.
func parseXPMColor(v string) (color.NRGBA, error) {
	if strings.EqualFold(v, "none") {
		return color.NRGBA{}, nil
	}
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 0 || len(hex)%3 != 0 {
			return color.NRGBA{}, fmt.Errorf("xpm: bad colour %q", v)
		}
		n := len(hex) / 3
		var c [3]uint8
		for i := range c {
			part, err := strconv.ParseUint(hex[i*n:(i+1)*n], 16, 64)
			if err != nil {
				return color.NRGBA{}, fmt.Errorf("xpm: bad colour %q", v)
			}
			// Keep the most significant 8 bits, widening single digits.
			switch {
			case n == 1:
				c[i] = uint8(part * 0x11)
			default:
				c[i] = uint8(part >> (4 * uint(n-2)))
			}
		}
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 0xff}, nil
	}
	if c, ok := xpmNamedColors[strings.ToLower(v)]; ok {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("xpm: unknown colour %q", v)
}

// parseXPMColorLine returns the key characters and the colour of one
// colour definition, preferring the "c" (colour visual) value.
func parseXPMColorLine(line string, cpp int) (string, color.NRGBA, error) {
	if len(line) < cpp {
		return "", color.NRGBA{}, fmt.Errorf("xpm: short colour line %q", line)
	}
	key := line[:cpp]
	fields := strings.Fields(line[cpp:])

	values := make(map[string]string)
	for i := 0; i+1 < len(fields); {
		ctx := fields[i]
		j := i + 1
		// Colour names may contain spaces; collect until the next context key.
		for j+1 < len(fields) && !isXPMContext(fields[j+1]) {
			j++
		}
		values[ctx] = strings.Join(fields[i+1:j+1], " ")
		i = j + 1
	}

	for _, ctx := range []string{"c", "g", "g4", "m"} {
		if v, ok := values[ctx]; ok {
			c, err := parseXPMColor(v)
			return key, c, err
		}
	}
	return "", color.NRGBA{}, fmt.Errorf("xpm: no colour in %q", line)
}

func isXPMContext(s string) bool {
	switch s {
	case "c", "m", "g", "g4", "s":
		return true
	}
	return false
}

func decodeXPM(r io.Reader) (image.Image, error) {
	h, rest, err := readXPM(r)
	if err != nil {
		return nil, err
	}
	if len(rest) < h.ncolors || len(rest)-h.ncolors < h.height {
		return nil, fmt.Errorf("xpm: have %d lines, need %d colours and %d rows", len(rest), h.ncolors, h.height)
	}

	colors := make(map[string]color.NRGBA, h.ncolors)
	for _, line := range rest[:h.ncolors] {
		key, c, err := parseXPMColorLine(line, h.cpp)
		if err != nil {
			return nil, err
		}
		colors[key] = c
	}

	rows := rest[h.ncolors : h.ncolors+h.height]
	for y, row := range rows {
		if len(row)/h.cpp < h.width {
			return nil, fmt.Errorf("xpm: row %d too short", y)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	for y, row := range rows {
		for x := 0; x < h.width; x++ {
			key := row[x*h.cpp : (x+1)*h.cpp]
			c, ok := colors[key]
			if !ok {
				return nil, fmt.Errorf("xpm: undefined pixel %q at %d,%d", key, x, y)
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}
