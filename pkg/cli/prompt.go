package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// PromptLine displays a prompt and reads a full line from the reader.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptInt reads an integer, returning def on empty input.
func promptInt(reader *bufio.Reader, prompt string, def int) (int, error) {
	line, err := PromptLine(reader, fmt.Sprintf("%s [%d]: ", prompt, def))
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return n, nil
}

// promptFloat reads a float, returning def on empty input.
func promptFloat(reader *bufio.Reader, prompt string, def float64) (float64, error) {
	line, err := PromptLine(reader, fmt.Sprintf("%s [%g]: ", prompt, def))
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return v, nil
}

// promptYesNo reads a y/N answer; empty input means no.
func promptYesNo(reader *bufio.Reader, prompt string) (bool, error) {
	line, err := PromptLine(reader, prompt+" (y/N): ")
	if err != nil {
		return false, err
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}

// parsePoint parses "x,y" into coordinates.
func parsePoint(s string) (int, int, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y but got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
