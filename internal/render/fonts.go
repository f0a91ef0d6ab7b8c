package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// faceSet holds every face the panels draw with, built once and shared.
// font.Face is not safe for concurrent use; all rendering happens on the
// scheduler goroutine, so no locking is needed.
type faceSet struct {
	label13   font.Face
	date11    font.Face
	extreme18 font.Face
	big64     font.Face
	feels12   font.Face
	body16    font.Face
	caption10 font.Face
	value28   font.Face
	small14   font.Face
}

func newFaceSet() (*faceSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}

	fs := &faceSet{}
	for _, spec := range []struct {
		dst  *font.Face
		src  *sfnt.Font
		size float64
	}{
		{&fs.label13, bold, 13},
		{&fs.date11, regular, 11},
		{&fs.extreme18, bold, 18},
		{&fs.big64, bold, 64},
		{&fs.feels12, regular, 12},
		{&fs.body16, regular, 16},
		{&fs.caption10, regular, 10},
		{&fs.value28, bold, 28},
		{&fs.small14, regular, 14},
	} {
		face, err := opentype.NewFace(spec.src, &opentype.FaceOptions{
			Size:    spec.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("building %gpt face: %w", spec.size, err)
		}
		*spec.dst = face
	}
	return fs, nil
}
