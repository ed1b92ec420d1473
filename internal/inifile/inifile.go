// Package inifile edits line-oriented [Section] key=value files in place,
// preserving every line it was not asked to change. It is not a full INI
// parser: no multi-line values, no escaping, comments pass through untouched.
package inifile

import (
	"fmt"
	"os"
	"strings"
)

// ReadValue returns the trimmed value of the first entry matching key
// (case-insensitive) inside the named section. The second result is false if
// the file, the section or the key is absent.
func ReadValue(path, section, key string) (string, bool) {
	doc, err := load(path)
	if err != nil {
		return "", false
	}
	start, end, ok := doc.sectionRegion(section)
	if !ok {
		return "", false
	}
	for i := start; i < end; i++ {
		k, v, ok := splitEntry(doc.lines[i])
		if ok && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// FindCandidateKey scans the named section top to bottom and returns the
// on-disk spelling of the first entry whose key matches any of the candidates
// (case-insensitive). Earlier lines win, not earlier candidates. The second
// result is false if the file, the section or every candidate is absent.
func FindCandidateKey(path, section string, candidates []string) (string, bool) {
	doc, err := load(path)
	if err != nil {
		return "", false
	}
	start, end, ok := doc.sectionRegion(section)
	if !ok {
		return "", false
	}
	for i := start; i < end; i++ {
		k, _, ok := splitEntry(doc.lines[i])
		if !ok {
			continue
		}
		for _, cand := range candidates {
			if strings.EqualFold(k, cand) {
				return k, true
			}
		}
	}
	return "", false
}

// WriteValue sets key=value inside the named section and rewrites the whole
// file. A missing section is appended at end of file; a missing key becomes
// the last entry of its section; an existing key (first match) is replaced in
// place. A missing file is an error, never created.
func WriteValue(path, section, key, value string) error {
	doc, err := load(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	doc.setValue(section, key, value)
	if err := doc.save(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// setValue mutates the line sequence per the WriteValue contract.
func (d *document) setValue(section, key, value string) {
	entry := key + "=" + value
	start, end, ok := d.sectionRegion(section)
	if !ok {
		// New section block at end of file, one blank separator when the
		// file is non-empty and does not already end with a blank line.
		if len(d.lines) > 0 && strings.TrimSpace(d.lines[len(d.lines)-1]) != "" {
			d.lines = append(d.lines, "")
		}
		d.lines = append(d.lines, "["+section+"]", entry)
		d.noFinalEOL = false
		return
	}
	for i := start; i < end; i++ {
		k, _, ok := splitEntry(d.lines[i])
		if ok && strings.EqualFold(k, key) {
			d.lines[i] = entry
			return
		}
	}
	// Append as the last entry of the section, immediately before the next
	// section header or at end of document.
	d.lines = append(d.lines, "")
	copy(d.lines[end+1:], d.lines[end:])
	d.lines[end] = entry
	if end == len(d.lines)-1 {
		d.noFinalEOL = false
	}
}

// sectionRegion returns the half-open line range owned by the first section
// header matching name: from the line after the header to the next line that
// looks like any section header, or end of document.
func (d *document) sectionRegion(name string) (start, end int, ok bool) {
	header := -1
	for i, line := range d.lines {
		if strings.EqualFold(strings.TrimSpace(line), "["+name+"]") {
			header = i
			break
		}
	}
	if header < 0 {
		return 0, 0, false
	}
	end = len(d.lines)
	for i := header + 1; i < len(d.lines); i++ {
		if isSectionHeader(d.lines[i]) {
			end = i
			break
		}
	}
	return header + 1, end, true
}

// isSectionHeader reports whether the trimmed line starts with "[" and ends
// with "]". Contents between the brackets are not inspected.
func isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 2 && strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

// splitEntry parses a key=value line. Blank lines, comment lines (";" or "#"
// after left-trim) and lines with an empty key are not entries.
func splitEntry(line string) (key, value string, ok bool) {
	left := strings.TrimLeft(line, " \t")
	if left == "" || strings.HasPrefix(left, ";") || strings.HasPrefix(left, "#") {
		return "", "", false
	}
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(line[idx+1:]), true
}

// document holds one file's lines for a single read-modify-write cycle.
// Lines carry no terminators; the original newline convention and the
// presence of a final newline are restored on save.
type document struct {
	lines      []string
	crlf       bool
	noFinalEOL bool
}

func load(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := &document{}
	text := string(data)
	if text == "" {
		return doc, nil
	}
	doc.crlf = strings.Contains(text, "\r\n")
	doc.noFinalEOL = !strings.HasSuffix(text, "\n")
	doc.lines = strings.Split(text, "\n")
	if !doc.noFinalEOL {
		doc.lines = doc.lines[:len(doc.lines)-1]
	}
	for i, line := range doc.lines {
		doc.lines[i] = strings.TrimSuffix(line, "\r")
	}
	return doc, nil
}

func (d *document) save(path string) error {
	eol := "\n"
	if d.crlf {
		eol = "\r\n"
	}
	text := strings.Join(d.lines, eol)
	if len(d.lines) > 0 && !d.noFinalEOL {
		text += eol
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
