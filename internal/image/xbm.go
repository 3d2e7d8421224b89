package image

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// X BitMap files are C source: two #define lines for the size followed by
// a char array of bits, least significant bit first, rows padded to bytes.
// A set bit is foreground (black).
func init() {
	image.RegisterFormat("xbm", "#define", decodeXBM, decodeXBMConfig)
}

var errXBMHeader = errors.New("xbm: missing width/height defines")

var xbmPalette = color.Palette{color.White, color.Black}

type xbmHeader struct {
	width, height int
}

// readXBMHeader parses the #define lines and returns the remaining text,
// starting at the array initialiser.
func readXBMHeader(r io.Reader) (xbmHeader, *bufio.Reader, error) {
	br := bufio.NewReader(r)
	var h xbmHeader
	for h.width == 0 || h.height == 0 {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			return h, nil, errXBMHeader
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[0] != "#define" {
			if err != nil {
				return h, nil, errXBMHeader
			}
			continue
		}
		n, convErr := strconv.Atoi(fields[2])
		if convErr != nil || n <= 0 || n > maxDimension {
			return h, nil, fmt.Errorf("xbm: bad define %q", strings.TrimSpace(line))
		}
		switch {
		case strings.HasSuffix(fields[1], "_width"):
			h.width = n
		case strings.HasSuffix(fields[1], "_height"):
			h.height = n
		}
	}
	return h, br, nil
}

func decodeXBMConfig(r io.Reader) (image.Config, error) {
	h, _, err := readXBMHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: xbmPalette, Width: h.width, Height: h.height}, nil
}

func decodeXBM(r io.Reader) (image.Image, error) {
	h, br, err := readXBMHeader(r)
	if err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("xbm: read: %w", err)
	}
	body := string(rest)
	open := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if open < 0 || end < open {
		return nil, errors.New("xbm: missing bits array")
	}

	// X10 files declare short and store 16-bit words, low byte first.
	words := strings.Contains(body[:open], "short")

	var bits []byte
	for _, tok := range strings.Split(body[open+1:end], ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("xbm: bad value %q", tok)
		}
		if words {
			bits = append(bits, byte(v), byte(v>>8))
			continue
		}
		bits = append(bits, byte(v))
	}

	stride := (h.width + 7) / 8
	if words {
		stride = (h.width + 15) / 16 * 2
	}
	if len(bits)/stride < h.height {
		return nil, fmt.Errorf("xbm: have %d bytes, need %d rows of %d", len(bits), h.height, stride)
	}

	img := image.NewPaletted(image.Rect(0, 0, h.width, h.height), xbmPalette)
	for y := 0; y < h.height; y++ {
		row := bits[y*stride : (y+1)*stride]
		for x := 0; x < h.width; x++ {
			if row[x/8]&(1<<uint(x%8)) != 0 {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img, nil
}
