// Package dates repairs and parses the free-text birth dates found in
// hand-typed spreadsheets.
package dates

import (
	"regexp"
	"strings"
)

// Rule is one correction applied by Correct. Rules run in table order; a
// rule is reported as applied only when it changed the text.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

func (r Rule) apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replace)
}

func spacing(name, pattern, replace string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replace: replace}
}

// month fixes are whole-word and case-insensitive.
func month(wrong, right string) Rule {
	return Rule{
		Name:    wrong + "→" + right,
		Pattern: regexp.MustCompile(`(?i)\b` + wrong + `\b`),
		Replace: right,
	}
}

// Rules is the correction table. Append to it to teach Correct a new typo.
var Rules = []Rule{
	// spacing first so ordinal fixes see word boundaries
	spacing("space after ordinal", `(\d(?:st|nd|rd|th))([A-Za-z]{3,})`, "$1 $2"),
	spacing("space between digits and letters", `(\d)([A-Za-z]{3,})`, "$1 $2"),
	spacing("space between letters and digits", `([A-Za-z]{3,})(\d)`, "$1 $2"),
	spacing("space after comma", `,(\S)`, ", $1"),

	spacing("1th→1st", `\b(1|21|31)(?:th|nd|rd)\b`, "${1}st"),
	spacing("2th→2nd", `\b(2|22)(?:th|st|rd)\b`, "${1}nd"),
	spacing("3th→3rd", `\b(3|23)(?:th|st|nd)\b`, "${1}rd"),
	spacing("11st→11th", `\b(11|12|13)(?:st|nd|rd)\b`, "${1}th"),
	spacing("4st→4th", `\b([4-9]|1[4-9]|2[4-9]|30)(?:st|nd|rd)\b`, "${1}th"),

	month("janaury", "January"),
	month("januray", "January"),
	month("jaunary", "January"),
	month("feburary", "February"),
	month("febuary", "February"),
	month("februray", "February"),
	month("febraury", "February"),
	month("marh", "March"),
	month("mrach", "March"),
	month("apirl", "April"),
	month("arpil", "April"),
	month("aprail", "April"),
	month("jully", "July"),
	month("agust", "August"),
	month("augest", "August"),
	month("augst", "August"),
	month("auguest", "August"),
	month("septmber", "September"),
	month("setember", "September"),
	month("sepetember", "September"),
	month("septemeber", "September"),
	month("octber", "October"),
	month("ocotber", "October"),
	month("octomber", "October"),
	month("novmber", "November"),
	month("novemeber", "November"),
	month("novembar", "November"),
	month("decmber", "December"),
	month("decemeber", "December"),
	month("decembar", "December"),

	spacing("collapse whitespace", `\s{2,}`, " "),
}

// Correct runs every rule over s and returns the result with the names of
// the rules that changed it.
func Correct(s string) (string, []string) {
	s = strings.TrimSpace(s)
	var applied []string
	for _, r := range Rules {
		next := r.apply(s)
		if next != s {
			applied = append(applied, r.Name)
			s = next
		}
	}
	return strings.TrimSpace(s), applied
}
