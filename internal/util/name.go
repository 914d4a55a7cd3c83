package util

import "strings"

// MarketingTagPrefix marks contacts already enrolled in the campaign
// list; the contacts export encodes it into the display name.
const MarketingTagPrefix = "LT_"

var invalidFirstNames = map[string]struct{}{
	"-":       {},
	"???????": {},
	"null":    {},
	"none":    {},
	"nan":     {},
	"":        {},
}

// FirstName extracts a usable first name from a free-text name field.
// Tagged names ("LT_01 Maria") yield the token after the tag; plain
// names yield the token before the first space. Placeholder tokens
// from the source system come back as "".
func FirstName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	var first string
	if strings.HasPrefix(name, MarketingTagPrefix) {
		// Tagged entries carry "<tag> <campaign name...> <first name>";
		// the usable token is the last one.
		fields := strings.Fields(name)
		if len(fields) < 2 {
			return ""
		}
		first = fields[len(fields)-1]
	} else {
		first, _, _ = strings.Cut(name, " ")
	}

	if _, bad := invalidFirstNames[strings.ToLower(first)]; bad {
		return ""
	}
	return first
}
