package interactive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

var promptTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// lineReader splits scripted input into one line per prompt. Each promptui
// prompt runs its own readline instance, which would otherwise buffer all
// pending input and leave the next prompt at EOF.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line terminated by '\r', the key promptui treats as
// enter. "\n" and "\r\n" endings are accepted. Once input runs out the
// reader is empty and the prompt ends with promptui.ErrEOF.
func (l *lineReader) next() io.ReadCloser {
	var line []byte
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if len(line) > 0 {
				line = append(line, '\r')
			}
			break
		}
		if b == '\r' || b == '\n' {
			if b == '\r' && l.r.Buffered() > 0 {
				if peek, err := l.r.Peek(1); err == nil && peek[0] == '\n' {
					_, _ = l.r.ReadByte()
				}
			}
			line = append(line, '\r')
			break
		}
		line = append(line, b)
	}
	return io.NopCloser(bytes.NewReader(line))
}

// text asks for a line of text. Required answers may not be blank.
func (w *Wizard) text(label, def string, required bool) (string, error) {
	validate := func(input string) error {
		if required && strings.TrimSpace(input) == "" && def == "" {
			return errors.New("required")
		}
		return nil
	}
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		Templates: promptTemplates,
		Validate:  validate,
		Stdin:     w.in(),
		Stdout:    w.out(),
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result) == "" {
		result = def
	}
	return strings.TrimSpace(result), nil
}

// confirm asks a yes/no question.
func (w *Wizard) confirm(label string, def bool) (bool, error) {
	choices := "y/N"
	if def {
		choices = "Y/n"
	}
	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, choices),
		Templates: promptTemplates,
		Validate:  validate,
		Stdin:     w.in(),
		Stdout:    w.out(),
	}
	result, err := prompt.Run()
	if err != nil {
		return false, err
	}
	if result == "" {
		return def, nil
	}
	return ParseBool(result)
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch strings.TrimSpace(str) {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

// matches reports whether input is contained in candidate, ignoring case and
// spaces.
func matches(candidate, input string) bool {
	candidate = strings.ReplaceAll(strings.ToLower(candidate), " ", "")
	input = strings.ReplaceAll(strings.ToLower(input), " ", "")
	return strings.Contains(candidate, input)
}
