package parser

import (
	"regexp"
	"strings"

	"kasus_scraper/models"
)

const chamberPrefix = "Zuständige Berufskammer:"

var (
	salutations = []string{"Herrn", "Frau"}

	// professionTokens mark an advisor entry and open a block.
	professionTokens = []string{"Steuerberater", "Steuerbevollmächtigte"}

	// professionLineTokens classify a line as the profession line.
	professionLineTokens = []string{"Steuerberater", "Steuerbevollmächtigte", "Wirtschaftsprüfer"}

	blockSuffixes  = []string{"GmbH", "mbH"}
	entitySuffixes = []string{"GmbH", "mbH", "AG", "Partnerschaft", "PartG"}

	addressRegex = regexp.MustCompile(`^[A-Za-zäöüÄÖÜß\s\-.]+\s+\d+`)
	postalRegex  = regexp.MustCompile(`^\d{5}\s+[A-Za-zäöüÄÖÜß\s\-]+`)
)

// lineContext is the state visible to a rule while it classifies one line.
type lineContext struct {
	lines []string
	index int
	line  string
	rec   *models.ContactRecord
}

func (lc *lineContext) previous() (string, bool) {
	if lc.index == 0 {
		return "", false
	}
	return lc.lines[lc.index-1], true
}

type rule struct {
	field string
	match func(lc *lineContext) bool
	apply func(lc *lineContext)
}

// rules are evaluated in order; the first match classifies the line and no
// other rule sees it.
var rules = []rule{
	{
		field: models.ColTitle,
		match: func(lc *lineContext) bool { return lc.rec.Title == "" && hasAnyPrefix(lc.line, salutations) },
		apply: func(lc *lineContext) { lc.rec.Title = lc.line },
	},
	{
		field: models.ColProfession,
		match: func(lc *lineContext) bool { return containsToken(lc.line, professionLineTokens) },
		apply: func(lc *lineContext) {
			lc.rec.Profession = lc.line
			if prev, ok := lc.previous(); ok && !containsAny(prev, entitySuffixes) {
				lc.rec.Name = prev
			}
		},
	},
	{
		field: models.ColCompany,
		match: func(lc *lineContext) bool { return containsAny(lc.line, entitySuffixes) },
		apply: func(lc *lineContext) { lc.rec.Company = lc.line },
	},
	{
		field: models.ColAddress,
		match: func(lc *lineContext) bool { return addressRegex.MatchString(lc.line) },
		apply: func(lc *lineContext) { lc.rec.Address = lc.line },
	},
	{
		field: models.ColPostalCode,
		match: func(lc *lineContext) bool { return postalRegex.MatchString(lc.line) },
		apply: func(lc *lineContext) {
			code, city, _ := strings.Cut(lc.line, " ")
			lc.rec.PostalCode = code
			lc.rec.City = strings.TrimSpace(city)
		},
	},
	labelRule(models.ColPhone, "Tel.:", func(r *models.ContactRecord, v string) { r.Phone = v }),
	labelRule(models.ColFax, "Fax:", func(r *models.ContactRecord, v string) { r.Fax = v }),
	labelRule(models.ColMobile, "Mobil:", func(r *models.ContactRecord, v string) { r.Mobile = v }),
	labelRule(models.ColEmail, "Email:", func(r *models.ContactRecord, v string) { r.Email = v }),
	labelRule(models.ColWebsite, "Internet:", func(r *models.ContactRecord, v string) { r.Website = v }),
	{
		field: models.ColChamber,
		match: func(lc *lineContext) bool { return strings.Contains(lc.line, "Steuerberaterkammer") },
		apply: func(lc *lineContext) {
			lc.rec.Chamber = strings.TrimSpace(strings.Replace(lc.line, chamberPrefix, "", 1))
		},
	},
}

func labelRule(field, prefix string, set func(*models.ContactRecord, string)) rule {
	return rule{
		field: field,
		match: func(lc *lineContext) bool { return strings.HasPrefix(lc.line, prefix) },
		apply: func(lc *lineContext) { set(lc.rec, strings.TrimSpace(strings.TrimPrefix(lc.line, prefix))) },
	}
}

// classify runs the rule table against one line and reports which field, if
// any, took it.
func classify(lc *lineContext) string {
	for _, r := range rules {
		if r.match(lc) {
			r.apply(lc)
			return r.field
		}
	}
	return ""
}

// isDetail reports whether a line belongs to the body of an entry rather
// than its header (salutation, name, profession).
func isDetail(line string) bool {
	if addressRegex.MatchString(line) || postalRegex.MatchString(line) {
		return true
	}
	for _, prefix := range []string{"Tel.:", "Fax:", "Mobil:", "Email:", "Internet:"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return strings.Contains(line, "Steuerberaterkammer")
}

func startsBlock(line string) bool {
	return hasAnyPrefix(line, salutations) ||
		containsToken(line, professionTokens) ||
		hasAnySuffix(line, blockSuffixes)
}

// containsToken reports whether any token occurs in s as a word of its own
// right. Occurrences that are only the first half of a chamber name
// ("Steuerberaterkammer") do not count.
func containsToken(s string, tokens []string) bool {
	for _, tok := range tokens {
		rest := s
		for {
			i := strings.Index(rest, tok)
			if i < 0 {
				break
			}
			rest = rest[i+len(tok):]
			if !strings.HasPrefix(rest, "kammer") {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
