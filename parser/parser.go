// Package parser turns the visible text of a directory result page into
// contact records.
//
// The page text has no markup left, so entries are recovered heuristically:
// lines are grouped into blocks that start at a salutation, a profession or
// a company line, and every block is classified line by line against an
// ordered rule table.
package parser

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"slices"
	"strings"
	"unicode/utf8"

	"kasus_scraper/identity"
	"kasus_scraper/models"
)

const (
	// MinBlockChars filters navigation and footer noise. Blocks whose joined
	// text is not longer than this are never emitted.
	MinBlockChars = 50
	MinBlockLines = 3
)

var ErrParse = errors.New("parse error")

// Block is a contiguous run of non-empty, trimmed lines describing one entry.
type Block struct {
	Lines []string
}

func BlockFromText(text string) Block {
	return Block{Lines: Lines(text)}
}

func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// IsAdvisor reports whether the block names a tax advisor profession anywhere.
func (b Block) IsAdvisor() bool {
	for _, line := range b.Lines {
		if containsToken(line, professionTokens) {
			return true
		}
	}
	return false
}

// Lines splits text into trimmed lines, dropping empty ones.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Segment groups the lines of a page into blocks.
//
// A line that starts with a salutation, names the profession or ends with a
// company suffix opens a new block. While a block is still in its header
// (no address, postal code, contact or chamber line seen yet) such lines are
// appended instead, so salutation, name and profession stay together. A
// salutation after the profession line always starts the next entry.
func Segment(text string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		var current []string
		opened, detailed, sawProfession := false, false, false

		emit := func() bool {
			if len(current) == 0 {
				return true
			}
			b := Block{Lines: current}
			if utf8.RuneCountInString(b.Text()) <= MinBlockChars {
				return true
			}
			return yield(b)
		}

		for _, line := range Lines(text) {
			if startsBlock(line) {
				if !opened || detailed || (sawProfession && hasAnyPrefix(line, salutations)) {
					if !emit() {
						return
					}
					current = []string{line}
					opened, detailed = true, false
					sawProfession = containsToken(line, professionLineTokens)
					continue
				}
				current = append(current, line)
				if containsToken(line, professionLineTokens) {
					sawProfession = true
				}
				continue
			}
			current = append(current, line)
			if isDetail(line) {
				detailed = true
			}
			if containsToken(line, professionLineTokens) {
				sawProfession = true
			}
		}
		emit()
	}
}

// Page yields the contact records found in the visible text of one result
// page. Advisor blocks that fail to parse are logged and skipped.
func Page(text string) iter.Seq[models.ContactRecord] {
	return func(yield func(models.ContactRecord) bool) {
		for block := range Segment(text) {
			if !block.IsAdvisor() {
				continue
			}
			rec, err := parseIsolated(block)
			if err != nil {
				log.Printf("Skipping block: %v", err)
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// ExtractPage collects Page into a slice.
func ExtractPage(text string) []models.ContactRecord {
	return slices.Collect(Page(text))
}

func parseIsolated(block Block) (rec models.ContactRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrParse, r)
		}
	}()
	return ParseBlock(block)
}

// ParseBlock classifies each line of a block and builds the record. It fails
// with ErrParse when the block is too short or carries neither a personal
// name nor a company.
func ParseBlock(block Block) (models.ContactRecord, error) {
	lines := Lines(block.Text())
	if len(lines) < MinBlockLines {
		return models.ContactRecord{}, fmt.Errorf("%w: block has %d lines", ErrParse, len(lines))
	}

	rec := models.ContactRecord{FullText: block.Text()}
	lc := &lineContext{lines: lines, rec: &rec}
	for i, line := range lines {
		lc.index, lc.line = i, line
		classify(lc)
	}

	who := rec.NameOrCompany()
	if who == "" {
		return models.ContactRecord{}, fmt.Errorf("%w: no name or company in %q", ErrParse, firstLine(lines))
	}
	rec.Key = identity.Key(who, rec.Address)
	return rec, nil
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
