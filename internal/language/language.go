package language

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2 primary (3-letter)
	alt3    string // ISO 639-2 alternate (e.g. "ger" vs "deu")
	display string
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"de", "deu", "ger", "German"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"nl", "nld", "dut", "Dutch"},
	{"pl", "pol", "", "Polish"},
	{"sv", "swe", "", "Swedish"},
	{"da", "dan", "", "Danish"},
	{"no", "nor", "", "Norwegian"},
	{"fi", "fin", "", "Finnish"},
	{"ru", "rus", "", "Russian"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "zho", "chi", "Chinese"},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byName  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byName = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		byName[strings.ToLower(e.display)] = e
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
	if e, ok := byName[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code or name to ISO 639-1.
// Returns empty string for unrecognized input, except that an unknown
// 2-letter code passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized
// input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeList deduplicates and normalizes a list of language codes to
// ISO 639-1.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, lang := range codes {
		trimmed := strings.ToLower(strings.TrimSpace(lang))
		if trimmed == "" {
			continue
		}
		if len(trimmed) > 2 {
			if mapped := ToISO2(trimmed); mapped != "" {
				trimmed = mapped
			}
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

// TrackTag extracts the track tag from a subtitle file path. A bare language
// suffix like "video.en.vtt" yields "en"; a converted track like
// "video.en.iter.vtt" yields "en.iter". known lists the language codes that
// terminate a bare tag.
func TrackTag(path string, known []string) string {
	name := filepath.Base(path)
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return ""
	}
	// parts[len-1] is the extension.
	last := parts[len(parts)-2]
	for _, lang := range known {
		if strings.EqualFold(last, lang) {
			return strings.ToLower(last)
		}
	}
	if len(parts) < 4 {
		return strings.ToLower(last)
	}
	return strings.ToLower(parts[len(parts)-3] + "." + last)
}

// SplitTag separates a track tag into its language code and variant. The
// variant is empty for a bare language tag.
func SplitTag(tag string) (lang, variant string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return "", ""
	}
	if idx := strings.Index(tag, "."); idx >= 0 {
		return tag[:idx], tag[idx+1:]
	}
	return tag, ""
}

var titleCaser = cases.Title(xlang.Und)

// TagDisplay renders a track tag for tables and logs, e.g. "en.non_iter"
// becomes "English (Non Iter)".
func TagDisplay(tag string) string {
	lang, variant := SplitTag(tag)
	if lang == "" {
		return "Unknown"
	}
	name := DisplayName(lang)
	if variant == "" {
		return name
	}
	pretty := titleCaser.String(strings.ReplaceAll(variant, "_", " "))
	return name + " (" + pretty + ")"
}
