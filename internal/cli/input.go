package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input was
// read, the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSelection prints a numbered list of options and reads a comma-separated
// list of numbers. An empty answer selects nothing. Duplicate and out-of-range
// numbers are rejected so the caller never sees an invalid pick.
func GetSelection(reader *bufio.Reader, prompt string, options []string, w io.Writer) ([]int, error) {
	fmt.Fprintln(w, prompt)
	for i, o := range options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, o)
	}

	line, err := GetSimpleText(reader, "Numbers, comma separated (empty for none)", w)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	var picks []int
	for _, part := range strings.Split(line, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", strings.TrimSpace(part))
		}
		if n < 1 || n > len(options) {
			return nil, fmt.Errorf("number out of range: %d", n)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		picks = append(picks, n-1)
	}
	return picks, nil
}

// GetDate reads a date in yyyy-mm-dd form. An empty answer returns the
// fallback value.
func GetDate(reader *bufio.Reader, prompt string, fallback time.Time, w io.Writer) (time.Time, error) {
	line, err := GetSimpleText(reader, prompt+" (yyyy-mm-dd, empty for "+fallback.Format("2006-01-02")+")", w)
	if err != nil {
		return time.Time{}, err
	}
	if line == "" {
		return fallback, nil
	}
	d, err := time.Parse("2006-01-02", line)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", line)
	}
	return d, nil
}

// GetFloat reads a positive decimal number.
func GetFloat(reader *bufio.Reader, prompt string, w io.Writer) (float64, error) {
	line, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return v, nil
}

// GetYesNo reads a yes/no answer. An empty answer returns the fallback.
func GetYesNo(reader *bufio.Reader, prompt string, fallback bool, w io.Writer) (bool, error) {
	def := "y"
	if !fallback {
		def = "n"
	}
	line, err := GetSimpleText(reader, prompt+" (y/n, default "+def+")", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return fallback, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected y or n, got %q", line)
	}
}
