package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
)

// Terminal preview for kitty and iTerm2-style inline-image protocols.
//
// Detection order: kitty graphics protocol (KITTY_WINDOW_ID or a
// kitty-compatible TERM), then the iTerm2 OSC 1337 inline file sequence
// (iTerm2, WezTerm, Warp, Tabby, VSCode), then an external chafa render
// as the block-graphics fallback. PNG is always the payload since edited
// buffers carry alpha.
//
// Debugging controlled by PREVIEW_DEBUG=1.
var previewDebug bool

func init() {
	godotenv.Load()

	debug := os.Getenv("PREVIEW_DEBUG")
	if debug == "1" || debug == "true" {
		previewDebug = true
	}
}

func debugf(format string, args ...interface{}) {
	if previewDebug {
		fmt.Fprintf(os.Stderr, "formatflip-preview: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby":
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "wezterm") || strings.Contains(term, "tabby")
}

func hasChafa() bool {
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether the running terminal can likely show an
// inline preview.
func PreviewSupported() bool {
	supported := isKitty() || isInlineImageCapable() || hasChafa()
	debugf("PreviewSupported -> %v (kitty=%v inline=%v chafa=%v)", supported, isKitty(), isInlineImageCapable(), hasChafa())
	return supported
}

// previewSize is a target placement in terminal cells and pixels.
type previewSize struct {
	Cols, Rows              int
	PixelWidth, PixelHeight int
}

// computePreviewSize fits the image into a bounded cell area, preserving
// aspect ratio and never scaling up.
func computePreviewSize(img image.Image) previewSize {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	const charW = 8
	const charH = 16
	const minCols, minRows = 6, 3
	const maxCols, maxRows = 80, 40

	scaleW := float64(maxCols*charW) / float64(w)
	scaleH := float64(maxRows*charH) / float64(h)
	scale := math.Min(1.0, math.Min(scaleW, scaleH))

	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}

	return previewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

// postImageNewlines picks padding lines so the prompt lands under the image.
func postImageNewlines(rows int) int {
	switch {
	case rows > 0 && rows <= 2:
		return 1
	case rows <= 6:
		return 2
	default:
		return 3
	}
}

// PreviewImage renders img inline in the terminal when a supported protocol
// is detected. Errors are informational; callers typically ignore them.
func PreviewImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	size := computePreviewSize(img)

	if isKitty() {
		debugf("attempting kitty protocol")
		if err := sendKittyImage(buf.Bytes(), size); err == nil {
			return nil
		} else {
			debugf("kitty protocol failed: %v", err)
		}
	}
	if isInlineImageCapable() {
		debugf("attempting inline protocol")
		if err := sendInlineImage(buf.Bytes(), size); err == nil {
			return nil
		} else {
			debugf("inline protocol failed: %v", err)
		}
	}
	if hasChafa() {
		debugf("attempting chafa fallback")
		if err := sendChafaImage(buf.Bytes(), size); err == nil {
			return nil
		} else {
			debugf("chafa failed: %v", err)
		}
	}
	return fmt.Errorf("no preview protocol matched")
}

// sendKittyImage transmits PNG bytes via the kitty graphics protocol,
// chunking the base64 payload into <=4096-byte pieces. q=2 suppresses
// terminal responses; c/r request the placement area.
func sendKittyImage(data []byte, size previewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	first := true
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := pos + chunkSize
		if end > len(enc) {
			end = len(enc)
		}
		chunk := enc[pos:end]
		mVal := "0"
		if end < len(enc) {
			mVal = "1"
		}

		var seq string
		if first {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, mVal, chunk)
			first = false
		} else {
			seq = "\x1b_Gm=" + mVal + ";" + chunk + "\x1b\\"
		}
		if _, err := os.Stdout.WriteString(seq); err != nil {
			return err
		}
	}

	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func sendInlineImage(data []byte, size previewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + enc + "\a"
	_, err := os.Stdout.WriteString(seq)

	for i := 0; i < postImageNewlines(0); i++ {
		fmt.Println()
	}
	return err
}

// sendChafaImage pipes PNG bytes through chafa for a block-symbol render.
func sendChafaImage(data []byte, size previewSize) error {
	if os.Getenv("NO_CHAFA") == "1" {
		return fmt.Errorf("chafa disabled via NO_CHAFA=1")
	}
	if _, err := exec.LookPath("chafa"); err != nil {
		return fmt.Errorf("chafa not found in PATH: %w", err)
	}

	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}

	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}
