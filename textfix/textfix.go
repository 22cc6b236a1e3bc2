// Package textfix repairs city and cuisine names that went through one or more
// wrong charset conversions before landing in the dataset.
package textfix

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// maxRepairPasses bounds how many layers of double encoding we try to peel off.
const maxRepairPasses = 3

// corrections maps corrupted spellings seen in the restaurant dataset to their
// canonical form. The generic repair cannot recover these because the original
// bytes were already replaced by U+FFFD or '?' upstream.
var corrections = map[string]string{
	"S\uFFFD\uFFFDo Paulo": "São Paulo",
	"SÃO Paulo":            "São Paulo",
	"S\uFFFD\uFFFDO PAULO": "São Paulo",
	"S_O Paulo":            "São Paulo",
	"S?o Paulo":            "São Paulo",
	"S_o Paulo":            "São Paulo",
	"São paulo":            "São Paulo",
	"Bras\uFFFD_Lia":       "Brasília",
	"Bras\uFFFDlia":        "Brasília",
	"Bras\uFFFD_lia":       "Brasília",
	"Brasilia":             "Brasília",
	"\uFFFD\uFFFDStanbul":  "İstanbul",
	"\uFFFDstanbul":        "İstanbul",
	"Istanbul":             "İstanbul",
	"ISTANBUL":             "İstanbul",
}

// misdecodings are the charsets UTF-8 bytes are most often wrongly read as.
var misdecodings = []*charmap.Charmap{
	charmap.Windows1252,
	charmap.ISO8859_1,
}

// Normalize repairs mojibake in s and then applies the fixed table of city
// name corrections. The table is an exact match on the repaired text.
func Normalize(s string) string {
	s = Repair(s)
	if fixed, ok := corrections[s]; ok {
		return fixed
	}
	return s
}

// Repair reverses UTF-8 text that was decoded as Windows-1252 or Latin-1,
// e.g. "SÃ£o Paulo" becomes "São Paulo". Each run of non-ASCII characters is
// repaired on its own, so a genuine "–" next to mojibake does not block the
// fix. Text that does not look like such a misdecoding is returned unchanged
// apart from NFC composition.
func Repair(s string) string {
	for i := 0; i < maxRepairPasses; i++ {
		fixed, ok := repairRuns(s)
		if !ok {
			break
		}
		s = fixed
	}
	return norm.NFC.String(s)
}

// repairRuns applies undoMisdecode to every maximal run of non-ASCII bytes.
// UTF-8 never puts an ASCII byte inside a multi-byte character, so runs split
// on character boundaries.
func repairRuns(s string) (string, bool) {
	if isASCII(s) {
		return "", false
	}
	var b strings.Builder
	b.Grow(len(s))
	changed := false
	for i := 0; i < len(s); {
		if s[i] < utf8.RuneSelf {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] >= utf8.RuneSelf {
			j++
		}
		run := s[i:j]
		if fixed, ok := undoMisdecode(run); ok {
			b.WriteString(fixed)
			changed = true
		} else {
			b.WriteString(run)
		}
		i = j
	}
	return b.String(), changed
}

// Corrections returns a copy of the manual correction table.
func Corrections() map[string]string {
	out := make(map[string]string, len(corrections))
	for k, v := range corrections {
		out[k] = v
	}
	return out
}

func undoMisdecode(s string) (string, bool) {
	if isASCII(s) {
		return "", false
	}
	for _, cm := range misdecodings {
		b, err := cm.NewEncoder().Bytes([]byte(s))
		if err != nil {
			continue
		}
		if !utf8.Valid(b) || bytes.Equal(b, []byte(s)) {
			continue
		}
		return string(b), true
	}
	return "", false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
