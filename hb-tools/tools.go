package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/hbshape"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
)

func main() {
	commando.
		SetExecutableName("hb-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for text shaping and font diagnostics.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("shape").
		SetDescription("Shape text with a given font and print the glyph run.").
		SetShortDescription("shape text").
		AddArgument("font", "font file path (.ttf, .otf, .ttc)", "").
		AddArgument("text...", "text to shape (variadic argument parts joined by comma by commando)", "").
		AddFlag("script,s", "script (ISO 15924, e.g. Latn, Arab, Hebr)", commando.String, "-").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, he)", commando.String, "-").
		AddFlag("direction,d", "direction: ltr|rtl|ttb|btt", commando.String, "-").
		AddFlag("features,f", "feature list (e.g. liga=1,kern=0,+rlig,-calt)", commando.String, "-").
		AddFlag("variations,v", "variation list (e.g. wght=600,wdth=85)", commando.String, "-").
		AddFlag("codepoints,c", "codepoints instead of text (e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("index,i", "face index within a collection", commando.Int, 0).
		AddFlag("scale", "font scale (0 keeps design units)", commando.Int, 0).
		AddFlag("json,j", "emit JSON glyph records instead of the text form", commando.Bool, nil).
		AddFlag("no-names,n", "print glyph ids instead of glyph names", commando.Bool, nil).
		SetAction(runShapeCommand)

	commando.
		Register("font").
		SetDescription("Print diagnostics for a font file.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path", "").
		AddFlag("index,i", "face index within a collection", commando.Int, 0).
		SetAction(runFontCommand)

	commando.
		Register("glyphs").
		SetDescription("Map codepoints to glyph ids and metrics without shaping.").
		SetShortDescription("glyph lookup").
		AddArgument("font", "font file path", "").
		AddArgument("text...", "text to look up", "").
		AddFlag("index,i", "face index within a collection", commando.Int, 0).
		SetAction(runGlyphsCommand)

	commando.Parse(nil)
}

func runShapeCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	face := mustLoadFace(args["font"], flags["index"])
	defer face.Release()

	font := hbshape.NewFont(face.Get())
	defer font.Release()
	if scale := mustFlagInt(flags["scale"], "scale"); scale > 0 {
		font.Get().SetScale(int32(scale), int32(scale))
	}
	vars, err := parseVariationList(flags["variations"])
	if err != nil {
		fatalf("%v", err)
	}
	font.Get().SetVariations(vars)

	features, err := parseFeatureList(flags["features"])
	if err != nil {
		fatalf("%v", err)
	}
	input, err := parseShapeInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}

	buf := hbshape.NewUnicodeBuffer().AddStr(input)
	if err := applySegmentFlags(buf, flags); err != nil {
		fatalf("%v", err)
	}
	out := hbshape.Shape(font.Get(), buf, features)

	format := hbshape.SerializeText
	if mustFlagBool(flags["json"], "json") {
		format = hbshape.SerializeJSON
	}
	var sflags hbshape.SerializeFlags
	if mustFlagBool(flags["no-names"], "no-names") {
		sflags |= hbshape.SerializeNoGlyphNames
	}
	fmt.Println(out.Serialize(font.Get(), format, sflags))
}

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	face := mustLoadFace(args["font"], flags["index"])
	defer face.Release()

	fmt.Printf("Path: %s\n", fontPath)
	blob := face.Get().FaceBlob()
	defer blob.Release()
	fmt.Printf("Faces: %d\n", hbshape.CountFaces(blob.Get()))
	fmt.Printf("Index: %d\n", face.Get().Index())
	if face.Get().IsEmpty() {
		fmt.Println("Status: unparsable, degraded to empty face")
		return
	}
	fmt.Printf("UPEM: %d\n", face.Get().Upem())
	fmt.Printf("Glyphs: %d\n", face.Get().GlyphCount())

	// names come straight from the sfnt name table
	if sf, err := sfnt.Parse(blob.Get().Data()); err == nil {
		var sb sfnt.Buffer
		if family, err := sf.Name(&sb, sfnt.NameIDFamily); err == nil {
			fmt.Printf("Family: %s\n", family)
		}
		if sub, err := sf.Name(&sb, sfnt.NameIDSubfamily); err == nil {
			fmt.Printf("Subfamily: %s\n", sub)
		}
		if version, err := sf.Name(&sb, sfnt.NameIDVersion); err == nil {
			fmt.Printf("Version: %s\n", version)
		}
	}

	font := hbshape.NewFont(face.Get())
	defer font.Release()
	if ext, ok := font.Get().HExtents(); ok {
		fmt.Printf("Extents: ascender=%d descender=%d linegap=%d\n",
			ext.Ascender, ext.Descender, ext.LineGap)
	}
}

func runGlyphsCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	face := mustLoadFace(args["font"], flags["index"])
	defer face.Release()
	font := hbshape.NewFont(face.Get())
	defer font.Release()

	for _, r := range args["text"].Value {
		g, ok := font.Get().NominalGlyph(r)
		if !ok {
			fmt.Printf("U+%04X -> <no glyph>\n", r)
			continue
		}
		name, _ := font.Get().GlyphName(g)
		if name == "" {
			name = strconv.FormatUint(uint64(g), 10)
		}
		fmt.Printf("U+%04X -> %s (gid %d, advance %d)\n",
			r, name, g, font.Get().GlyphHAdvance(g))
	}
}

func mustLoadFace(fontArg commando.ArgValue, indexFlag commando.FlagValue) hbshape.Owned[*hbshape.Face] {
	fontPath := strings.TrimSpace(fontArg.Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	index := mustFlagInt(indexFlag, "index")
	if index < 0 {
		fatalf("--index must be >= 0")
	}
	face, err := hbshape.NewFaceFromFile(fontPath, uint32(index))
	if err != nil {
		fatalf("cannot read font: %v", err)
	}
	return face
}

func applySegmentFlags(buf *hbshape.UnicodeBuffer, flags map[string]commando.FlagValue) error {
	if s, err := flagString(flags["script"]); err != nil {
		return err
	} else if s != "" {
		tag, err := hbshape.TagFromString(s)
		if err != nil {
			return fmt.Errorf("invalid script %q: %w", s, err)
		}
		buf.SetScript(hbshape.Script(tag))
	}
	if l, err := flagString(flags["lang"]); err != nil {
		return err
	} else if l != "" {
		lang, err := hbshape.ParseLanguage(l)
		if err != nil {
			return fmt.Errorf("invalid language tag %q: %w", l, err)
		}
		buf.SetLanguage(lang)
	}
	d, err := flagString(flags["direction"])
	if err != nil {
		return err
	}
	switch strings.ToLower(d) {
	case "":
	case "ltr", "left-to-right":
		buf.SetDirection(hbshape.LeftToRight)
	case "rtl", "right-to-left":
		buf.SetDirection(hbshape.RightToLeft)
	case "ttb", "top-to-bottom":
		buf.SetDirection(hbshape.TopToBottom)
	case "btt", "bottom-to-top":
		buf.SetDirection(hbshape.BottomToTop)
	default:
		return fmt.Errorf("unsupported direction %q (expected ltr|rtl|ttb|btt)", d)
	}
	return nil
}

func parseShapeInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	cp, err := flagString(cpFlag)
	if err != nil {
		return "", err
	}
	if cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return string(runes), nil
	}
	return textArg.Value, nil
}

func parseFeatureList(flag commando.FlagValue) ([]hbshape.Feature, error) {
	spec, err := flagString(flag)
	if err != nil {
		return nil, err
	}
	if spec == "" {
		return nil, nil
	}
	parts := splitCSVSpace(spec)
	out := make([]hbshape.Feature, 0, len(parts))
	for _, p := range parts {
		f, err := hbshape.ParseFeature(p)
		if err != nil {
			return nil, fmt.Errorf("invalid feature %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func parseVariationList(flag commando.FlagValue) ([]hbshape.Variation, error) {
	spec, err := flagString(flag)
	if err != nil {
		return nil, err
	}
	if spec == "" {
		return nil, nil
	}
	parts := splitCSVSpace(spec)
	out := make([]hbshape.Variation, 0, len(parts))
	for _, p := range parts {
		v, err := hbshape.ParseVariation(p)
		if err != nil {
			return nil, fmt.Errorf("invalid variation %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	t := strings.TrimSpace(token)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "U+"), "u+")
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	if t == "" {
		return 0, errors.New("empty codepoint token")
	}
	n, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	if n > 0x10FFFF {
		return 0, fmt.Errorf("codepoint %q out of Unicode range", token)
	}
	return rune(n), nil
}

func splitCSVSpace(spec string) []string {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func flagString(flag commando.FlagValue) (string, error) {
	s, err := flag.GetString()
	if err != nil {
		return "", fmt.Errorf("invalid flag: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "-" {
		s = ""
	}
	return s, nil
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	v, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return v
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	v, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return v
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
