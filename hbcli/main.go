package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/hbshape"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'hbshape.cli'
func tracer() tracing.Trace {
	return tracing.Select("hbshape.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace.hbshape":     "Info",
		"trace.hbshape.cli": "Info",
		"trace.hbshape.hb":  "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the shaping CLI")
	//
	// set up REPL
	repl, err := readline.New("hb > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	fontname string
	face     hbshape.Owned[*hbshape.Face]
	font     hbshape.Owned[*hbshape.Font]
	props    hbshape.SegmentProperties
	features []hbshape.Feature
	json     bool
}

func (intp *Intp) String() string {
	sb := strings.Builder{}
	name := intp.fontname
	if name == "" {
		name = "<empty face>"
	}
	sb.WriteString(fmt.Sprintf("( font=%s", name))
	if intp.props.Direction != hbshape.DirectionInvalid {
		sb.WriteString(" dir=" + intp.props.Direction.String())
	}
	if intp.props.Script != 0 {
		sb.WriteString(" script=" + intp.props.Script.String())
	}
	if intp.props.Language != "" {
		sb.WriteString(" lang=" + string(intp.props.Language))
	}
	for _, f := range intp.features {
		sb.WriteString(" " + f.String())
	}
	sb.WriteString(" )")
	return sb.String()
}

func (intp *Intp) loadFont(name string) error {
	if name == "" {
		// no font given, shape with the empty face
		intp.face = hbshape.NewEmptyFace()
		intp.font = hbshape.NewFont(intp.face.Get())
		return nil
	}
	face, err := hbshape.NewFaceFromFile(name, 0)
	if err != nil {
		return err
	}
	intp.fontname = name
	intp.face = face
	intp.font = hbshape.NewFont(face.Get())
	if intp.face.Get().IsEmpty() {
		pterm.Error.Printfln("font %s did not parse, shaping with the empty face", name)
	}
	return nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, arg := splitCommand(line)
		fn, ok := commandFn[cmd]
		if !ok {
			tracer().Errorf("unknown command %q, try 'help'", cmd)
			continue
		}
		err, quit := fn(intp, arg)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Commands are of the form "shape:Hello World!" or just "info"; the first
// colon separates command from argument.
func splitCommand(line string) (cmd, arg string) {
	if c := strings.IndexByte(line, ':'); c >= 0 {
		return strings.ToLower(strings.TrimSpace(line[:c])), line[c+1:]
	}
	return strings.ToLower(line), ""
}

var commandFn = map[string]func(*Intp, string) (error, bool){
	"quit":     quitOp,
	"help":     helpOp,
	"shape":    shapeOp,
	"glyph":    glyphOp,
	"dir":      dirOp,
	"script":   scriptOp,
	"lang":     langOp,
	"feature":  featureOp,
	"scale":    scaleOp,
	"json":     jsonOp,
	"info":     infoOp,
	"font":     fontOp,
	"reset":    resetOp,
	"extents":  extentsOp,
	"features": featuresOp,
}

func quitOp(intp *Intp, arg string) (error, bool) {
	return nil, true
}

func helpOp(intp *Intp, arg string) (error, bool) {
	pterm.Println(`commands:
  shape:<text>          shape text, print the glyph run
  glyph:<char or hex>   look up a single glyph with metrics
  dir:<ltr|rtl|ttb|btt> set run direction ('dir:' unsets)
  script:<tag>          set run script, e.g. script:Latn
  lang:<tag>            set run language, e.g. lang:en
  feature:<spec>        add a feature, e.g. feature:-liga
  features:             clear the feature list
  scale:<n>             set font scale (0 resets to design units)
  json                  toggle JSON output
  info                  show face info
  font:<path>           load another font
  extents               show font-wide extents
  reset                 unset direction, script, language, features
  quit                  leave (or <ctrl>D)`)
	return nil, false
}

func shapeOp(intp *Intp, arg string) (error, bool) {
	if arg == "" {
		return fmt.Errorf("nothing to shape, try 'shape:Hello'"), false
	}
	buf := hbshape.NewUnicodeBuffer().
		AddStr(arg).
		SetSegmentProperties(intp.props)
	out := hbshape.Shape(intp.font.Get(), buf, intp.features)
	format := hbshape.SerializeText
	if intp.json {
		format = hbshape.SerializeJSON
	}
	pterm.Println(out.Serialize(intp.font.Get(), format, 0))
	return nil, false
}

func glyphOp(intp *Intp, arg string) (error, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return fmt.Errorf("need a character or U+xxxx codepoint"), false
	}
	var r rune
	if strings.HasPrefix(arg, "U+") || strings.HasPrefix(arg, "u+") {
		n, err := strconv.ParseUint(arg[2:], 16, 32)
		if err != nil {
			return fmt.Errorf("invalid codepoint %q: %w", arg, err), false
		}
		r = rune(n)
	} else {
		r = []rune(arg)[0]
	}
	font := intp.font.Get()
	g, ok := font.NominalGlyph(r)
	if !ok {
		pterm.Printfln("U+%04X -> <no glyph>", r)
		return nil, false
	}
	name, _ := font.GlyphName(g)
	pterm.Printfln("U+%04X -> gid %d %s advance=%d", r, g, name, font.GlyphHAdvance(g))
	if ext, ok := font.GlyphExtents(g); ok {
		pterm.Printfln("  extents: bearing=(%d,%d) size=(%d,%d)",
			ext.XBearing, ext.YBearing, ext.Width, ext.Height)
	}
	return nil, false
}

func dirOp(intp *Intp, arg string) (error, bool) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		intp.props.Direction = hbshape.DirectionInvalid
	case "ltr":
		intp.props.Direction = hbshape.LeftToRight
	case "rtl":
		intp.props.Direction = hbshape.RightToLeft
	case "ttb":
		intp.props.Direction = hbshape.TopToBottom
	case "btt":
		intp.props.Direction = hbshape.BottomToTop
	default:
		return fmt.Errorf("unknown direction %q", arg), false
	}
	return nil, false
}

func scriptOp(intp *Intp, arg string) (error, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		intp.props.Script = 0
		return nil, false
	}
	tag, err := hbshape.TagFromString(arg)
	if err != nil {
		return err, false
	}
	intp.props.Script = hbshape.Script(tag)
	return nil, false
}

func langOp(intp *Intp, arg string) (error, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		intp.props.Language = ""
		return nil, false
	}
	lang, err := hbshape.ParseLanguage(arg)
	if err != nil {
		return err, false
	}
	intp.props.Language = lang
	return nil, false
}

func featureOp(intp *Intp, arg string) (error, bool) {
	f, err := hbshape.ParseFeature(strings.TrimSpace(arg))
	if err != nil {
		return err, false
	}
	intp.features = append(intp.features, f)
	return nil, false
}

func featuresOp(intp *Intp, arg string) (error, bool) {
	intp.features = nil
	return nil, false
}

func scaleOp(intp *Intp, arg string) (error, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("invalid scale %q: %w", arg, err), false
	}
	// fonts freeze when shared, so swap in a fresh one
	font := hbshape.NewFont(intp.face.Get())
	if n > 0 {
		font.Get().SetScale(int32(n), int32(n))
	}
	intp.font.Release()
	intp.font = font
	return nil, false
}

func jsonOp(intp *Intp, arg string) (error, bool) {
	intp.json = !intp.json
	pterm.Printfln("json output: %v", intp.json)
	return nil, false
}

func infoOp(intp *Intp, arg string) (error, bool) {
	face := intp.face.Get()
	pterm.Printfln("upem=%d glyphs=%d index=%d empty=%v",
		face.Upem(), face.GlyphCount(), face.Index(), face.IsEmpty())
	return nil, false
}

func fontOp(intp *Intp, arg string) (error, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return fmt.Errorf("need a font file path"), false
	}
	oldFace, oldFont := intp.face, intp.font
	if err := intp.loadFont(arg); err != nil {
		return err, false
	}
	oldFont.Release()
	oldFace.Release()
	return nil, false
}

func extentsOp(intp *Intp, arg string) (error, bool) {
	font := intp.font.Get()
	if ext, ok := font.HExtents(); ok {
		pterm.Printfln("horizontal: ascender=%d descender=%d linegap=%d",
			ext.Ascender, ext.Descender, ext.LineGap)
	}
	if ext, ok := font.VExtents(); ok {
		pterm.Printfln("vertical:   ascender=%d descender=%d linegap=%d",
			ext.Ascender, ext.Descender, ext.LineGap)
	}
	return nil, false
}

func resetOp(intp *Intp, arg string) (error, bool) {
	intp.props = hbshape.SegmentProperties{}
	intp.features = nil
	return nil, false
}
