package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"formatflip/pkg/config"
	"formatflip/pkg/export"
	"formatflip/pkg/raster"
	"formatflip/pkg/session"
)

// Version is stamped at build time via -ldflags.
var Version = "0.0.0-dev"

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  b  - remove background (seed point or auto white)")
	fmt.Println("  c  - crop")
	fmt.Println("  r  - rotate")
	fmt.Println("  f  - flip horizontally")
	fmt.Println("  F  - flip vertically")
	fmt.Println("  z  - resize")
	fmt.Println("  u  - undo")
	fmt.Println("  U  - redo")
	fmt.Println("  n  - next file")
	fmt.Println("  p  - previous file")
	fmt.Println("  o  - open another image")
	fmt.Println("  d  - remove current file from the session")
	fmt.Println("  l  - list loaded files")
	fmt.Println("  e  - export / save")
	fmt.Println("  v  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// Editor is the interactive step-driven loop: load files, apply edit tools
// against the session's working buffer, then export.
type Editor struct {
	Session *session.Session
	Config  *config.Config
	Preview bool

	reader *bufio.Reader
}

func NewEditor(s *session.Session, cfg *config.Config) *Editor {
	return &Editor{
		Session: s,
		Config:  cfg,
		Preview: PreviewSupported(),
		reader:  bufio.NewReader(os.Stdin),
	}
}

// Run drives the command loop until the user quits or stdin closes.
func (e *Editor) Run() error {
	fmt.Println("FormatFlip " + Version)
	e.printStatus()
	usage()

	for {
		line, err := PromptLine(e.reader, "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input error: %w", err)
		}
		if line == "" {
			continue
		}

		switch []rune(line)[0] {
		case 'b':
			e.cmdBackground()
		case 'c':
			e.cmdCrop()
		case 'r':
			e.cmdRotate()
		case 'f':
			e.applyEdit("flip horizontal", func() error { return e.Session.Flip(raster.Horizontal) })
		case 'F':
			e.applyEdit("flip vertical", func() error { return e.Session.Flip(raster.Vertical) })
		case 'z':
			e.cmdResize()
		case 'u':
			if e.Session.Undo() {
				e.showBuffer()
			} else {
				fmt.Println("nothing to undo")
			}
		case 'U':
			if e.Session.Redo() {
				e.showBuffer()
			} else {
				fmt.Println("nothing to redo")
			}
		case 'n':
			e.Session.Select(e.Session.Current + 1)
			e.printStatus()
			e.showBuffer()
		case 'p':
			e.Session.Select(e.Session.Current - 1)
			e.printStatus()
			e.showBuffer()
		case 'o':
			e.cmdOpen()
		case 'd':
			e.cmdRemoveFile()
		case 'l':
			e.cmdList()
		case 'e':
			e.cmdExport()
		case 'v':
			if err := CheckForUpdates(e.reader); err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}
		case 'h':
			usage()
		case 'q':
			fmt.Println("Exiting...")
			return nil
		default:
			// ignore other keys
		}
	}
}

func (e *Editor) printStatus() {
	f := e.Session.File()
	if f == nil {
		fmt.Println("No image loaded. Press 'o' to open one, or pass paths as arguments.")
		return
	}
	b := e.Session.Buffer.Bounds()
	edited := ""
	if f.Edited {
		edited = ", edited"
	}
	fmt.Printf("[%d/%d] %s (%dx%d%s)\n", e.Session.Current+1, len(e.Session.Files), f.Name, b.Dx(), b.Dy(), edited)
}

func (e *Editor) showBuffer() {
	if e.Preview && e.Session.Buffer != nil {
		_ = PreviewImage(e.Session.Buffer)
	}
}

// applyEdit runs an edit against the session and reports the outcome. Failed
// edits leave the buffer untouched, so the loop just continues.
func (e *Editor) applyEdit(name string, fn func() error) {
	if err := fn(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return
	}
	fmt.Printf("Applied %s\n", name)
	e.printStatus()
	e.showBuffer()
}

func (e *Editor) cmdBackground() {
	if e.Session.Buffer == nil {
		fmt.Println("no image loaded")
		return
	}
	seed, err := PromptLine(e.reader, "seed x,y (empty removes white from the corners): ")
	if err != nil {
		return
	}
	tol, err := promptInt(e.reader, "tolerance 0-100", e.Config.Tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		return
	}

	if seed == "" {
		e.applyEdit("remove white background", func() error { return e.Session.RemoveWhiteBackground(tol) })
		return
	}
	x, y, err := parsePoint(seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		return
	}
	e.applyEdit("remove background", func() error { return e.Session.RemoveBackground(x, y, tol) })
}

func (e *Editor) cmdCrop() {
	if e.Session.Buffer == nil {
		fmt.Println("no image loaded")
		return
	}
	b := e.Session.Buffer.Bounds()

	origin, err := PromptLine(e.reader, "origin x,y [0,0]: ")
	if err != nil {
		return
	}
	x, y := 0, 0
	if origin != "" {
		if x, y, err = parsePoint(origin); err != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", err)
			return
		}
	}

	w, err := promptInt(e.reader, "width", b.Dx()-x)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		return
	}

	var h int
	if ratio := e.Config.CropPreset.AspectRatio(); ratio > 0 {
		h = int(float64(w)/ratio + 0.5)
		fmt.Printf("preset %s locks height to %d\n", e.Config.CropPreset, h)
	} else {
		h, err = promptInt(e.reader, "height", b.Dy()-y)
		if err != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", err)
			return
		}
	}

	region := raster.CropRegion{X: x, Y: y, Width: w, Height: h}
	if e.Preview {
		_ = PreviewImage(RenderCropOverlay(e.Session.Buffer, region))
	}
	ok, err := promptYesNo(e.reader, fmt.Sprintf("crop to %dx%d at (%d,%d)?", w, h, x, y))
	if err != nil || !ok {
		fmt.Println("crop cancelled")
		return
	}
	e.applyEdit("crop", func() error { return e.Session.Crop(region) })
}

func (e *Editor) cmdRotate() {
	deg, err := promptFloat(e.reader, "degrees clockwise", e.Config.Rotation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		return
	}
	e.applyEdit("rotate", func() error { return e.Session.Rotate(deg) })
}

func (e *Editor) cmdResize() {
	if e.Session.Buffer == nil {
		fmt.Println("no image loaded")
		return
	}
	b := e.Session.Buffer.Bounds()

	w, err := promptInt(e.reader, "width", e.Config.Resize.Width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		return
	}
	var h int
	if e.Config.Resize.LockAspect {
		h = raster.FitHeight(b.Dx(), b.Dy(), w)
		fmt.Printf("aspect lock sets height to %d\n", h)
	} else {
		h, err = promptInt(e.reader, "height", e.Config.Resize.Height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", err)
			return
		}
	}
	e.applyEdit("resize", func() error { return e.Session.Resize(w, h) })
}

func (e *Editor) cmdOpen() {
	path, selErr := SelectImageWithFzf(".")
	if selErr != nil || path == "" {
		var err error
		path, err = PromptLine(e.reader, "Enter path to image to open (leave empty to cancel): ")
		if err != nil || path == "" {
			fmt.Println("open cancelled")
			return
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return
	}
	added, errs := e.Session.Add(session.Input{Name: path, Data: data})
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	if added > 0 {
		e.Session.Select(len(e.Session.Files) - 1)
		fmt.Printf("Opened %s\n", path)
		e.printStatus()
		e.showBuffer()
	}
}

func (e *Editor) cmdRemoveFile() {
	f := e.Session.File()
	if f == nil {
		fmt.Println("no file selected")
		return
	}
	e.Session.Remove(e.Session.Current)
	fmt.Printf("Removed %s\n", f.Name)
	e.printStatus()
}

func (e *Editor) cmdList() {
	if len(e.Session.Files) == 0 {
		fmt.Println("no files loaded")
		return
	}
	for i, f := range e.Session.Files {
		marker := " "
		if i == e.Session.Current {
			marker = "*"
		}
		edited := ""
		if f.Edited {
			edited = " (edited)"
		}
		fmt.Printf("%s %d) %s%s\n", marker, i+1, f.Name, edited)
	}
}

func (e *Editor) cmdExport() {
	items := e.Session.ExportItems()
	if len(items) == 0 {
		fmt.Println("nothing to export")
		return
	}

	fmt.Println("Formats:")
	for _, f := range export.All {
		fmt.Printf("  %-5s - %s\n", f, f.Description())
	}
	tag, err := PromptLine(e.reader, fmt.Sprintf("format [%s]: ", e.Config.Format))
	if err != nil {
		return
	}
	if tag == "" {
		tag = e.Config.Format
	}
	format, err := export.ParseFormat(tag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}

	quality := e.Config.QualityFraction()
	if format.Lossy() {
		q, err := promptInt(e.reader, "quality 0-100", e.Config.Quality)
		if err != nil || q < 0 || q > 100 {
			fmt.Fprintln(os.Stderr, "quality must be between 0 and 100")
			return
		}
		quality = float64(q) / 100
	}

	results := export.ConvertAll(items, format, quality)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", r.Err)
			failed++
		}
	}
	if failed == len(results) {
		fmt.Println("all conversions failed, nothing written")
		return
	}

	asZip := false
	if len(items) > 1 {
		asZip, err = promptYesNo(e.reader, fmt.Sprintf("bundle %d files into %s?", len(items)-failed, export.ArchiveName))
		if err != nil {
			return
		}
	}

	if asZip {
		blob, err := export.BuildArchive(results)
		if err != nil {
			fmt.Fprintf(os.Stderr, "archive failed: %v\n", err)
			return
		}
		if err := os.WriteFile(export.ArchiveName, blob, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write archive: %v\n", err)
			return
		}
		fmt.Printf("Saved %s\n", export.ArchiveName)
		return
	}

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := os.WriteFile(r.OutputName, r.Data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", r.OutputName, err)
			continue
		}
		fmt.Printf("Saved %s\n", r.OutputName)
	}
}

// LoadPaths reads the given paths into the session, reporting per-file
// failures without aborting the batch.
func LoadPaths(s *session.Session, paths []string) error {
	inputs := make([]session.Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", p, err)
			continue
		}
		inputs = append(inputs, session.Input{Name: p, Data: data})
	}
	added, errs := s.Add(inputs...)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	if added == 0 && len(paths) > 0 {
		return fmt.Errorf("no loadable images among %s", strings.Join(paths, ", "))
	}
	return nil
}
