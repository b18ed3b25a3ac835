package typestrip

import "regexp"

// residualPatterns are the string-level markers spec §8 names explicitly:
// if any of these survive into emitted client JS after Strip, type-stripping
// failed and the compiler must raise a TypeStripResidual diagnostic rather
// than ship TypeScript-only syntax to the browser.
var residualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<[A-Za-z_$][\w$]*>\s*\(`),     // <T>(...)
	regexp.MustCompile(`\bas\s+[A-Za-z_$]`),            // as T
	regexp.MustCompile(`[\w)\]]!(?:[^=]|$)`),            // x!
	regexp.MustCompile(`:\s*[A-Za-z_$][\w$.<>\[\]]*\s*=>`), // ): T =>
	regexp.MustCompile(`\binterface\b`),
	regexp.MustCompile(`\btype\s+[A-Za-z_$][\w$]*\s*=`),
	regexp.MustCompile(`\blet\s+[A-Za-z_$][\w$]*\s*:\s*[A-Za-z_$]`),
}

// HasResidual reports whether out still contains TypeScript-only syntax,
// per the guard scan in spec §8. It returns the first offending substring
// for use in a diagnostic message.
func HasResidual(out string) (bad string, found bool) {
	for _, re := range residualPatterns {
		if loc := re.FindStringIndex(out); loc != nil {
			return out[loc[0]:loc[1]], true
		}
	}
	return "", false
}
