package fix

import (
	"regexp"
	"strings"
)

// prohibitedClaims are phrases healthcare advertising rules do not allow
// without substantiation.
var prohibitedClaims = []string{
	"guaranteed results",
	"guarantee",
	"cure",
	"miracle",
	"100% effective",
	"risk-free",
	"no side effects",
	"permanent results",
	"best doctor",
	"painless",
}

var claimPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(prohibitedClaims))
	for i, c := range prohibitedClaims {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(c) + `\b`)
	}
	return out
}()

// ComplianceFlag records a prohibited claim found in a drafted fix.
type ComplianceFlag struct {
	IssueID string
	Page    string
	Phrase  string
}

// CheckCompliance scans drafted content for prohibited medical claims.
func CheckCompliance(fixes []Fix) []ComplianceFlag {
	var flags []ComplianceFlag
	for _, f := range fixes {
		lower := strings.ToLower(f.Content)
		for i, re := range claimPatterns {
			if re.MatchString(lower) {
				flags = append(flags, ComplianceFlag{IssueID: f.IssueID, Page: f.Page, Phrase: prohibitedClaims[i]})
			}
		}
	}
	return flags
}

// ApplyCompliance marks flagged fixes as needing human review.
func ApplyCompliance(fixes []Fix, flags []ComplianceFlag) {
	type key struct{ issue, page string }
	byFix := make(map[key][]string)
	for _, fl := range flags {
		k := key{fl.IssueID, fl.Page}
		byFix[k] = append(byFix[k], fl.Phrase)
	}
	for i := range fixes {
		phrases, ok := byFix[key{fixes[i].IssueID, fixes[i].Page}]
		if !ok {
			continue
		}
		fixes[i].NeedsReview = true
		for _, p := range phrases {
			fixes[i].Flags = append(fixes[i].Flags, "prohibited claim: "+p)
		}
	}
}
