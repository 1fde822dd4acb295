package language

import (
	"strings"

	"golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	native  string   // Name in the language itself
	words   []string // Full word forms (e.g. "english")
}

// Ordered as the backend lists them; the first six are the ones the
// processing forms expose.
var languages = []entry{
	{"ar", "ara", "", "Arabic", "العربية", []string{"arabic"}},
	{"en", "eng", "", "English", "English", []string{"english"}},
	{"tr", "tur", "", "Turkish", "Türkçe", []string{"turkish"}},
	{"fr", "fra", "fre", "French", "Français", []string{"french"}},
	{"es", "spa", "", "Spanish", "Español", []string{"spanish"}},
	{"de", "deu", "ger", "German", "Deutsch", []string{"german"}},
	{"zh", "zho", "chi", "Chinese", "中文", []string{"chinese"}},
	{"ru", "rus", "", "Russian", "Русский", []string{"russian"}},
	{"ja", "jpn", "", "Japanese", "日本語", []string{"japanese"}},
	{"ko", "kor", "", "Korean", "한국어", []string{"korean"}},
	{"it", "ita", "", "Italian", "Italiano", []string{"italian"}},
	{"pt", "por", "", "Portuguese", "Português", []string{"portuguese"}},
	{"nl", "nld", "dut", "Dutch", "Nederlands", []string{"dutch"}},
	{"pl", "pol", "", "Polish", "Polski", []string{"polish"}},
	{"hi", "hin", "", "Hindi", "हिन्दी", []string{"hindi"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Normalize maps user input (a 2- or 3-letter code, an English word form, or
// a BCP 47 tag such as "pt-BR") to a supported 2-letter code. The boolean is
// false when the input does not resolve to a supported language.
func Normalize(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if e := lookup(input); e != nil {
		return e.code2, true
	}
	tag, err := language.Parse(input)
	if err != nil {
		return "", false
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", false
	}
	if e := lookup(base.String()); e != nil {
		return e.code2, true
	}
	if iso3 := base.ISO3(); iso3 != "" {
		if e := lookup(iso3); e != nil {
			return e.code2, true
		}
	}
	return "", false
}

// Supported reports whether code is exactly one of the supported 2-letter codes.
func Supported(code string) bool {
	_, ok := byCode2[strings.TrimSpace(code)]
	return ok
}

// Codes returns the supported 2-letter codes in display order.
func Codes() []string {
	out := make([]string, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.code2)
	}
	return out
}

// Info describes a supported language for listings.
type Info struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

// All returns every supported language in display order.
func All() []Info {
	out := make([]Info, 0, len(languages))
	for _, e := range languages {
		out = append(out, Info{Code: e.code2, Name: e.display, Native: e.native})
	}
	return out
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
