package render

import (
	"time"

	"golang.org/x/text/language"
)

// localeProfile holds the presentation strings for one supported locale.
// Date layouts mirror what browsers print for toLocaleString.
type localeProfile struct {
	tag        language.Tag
	dateLayout string
	userLabel  string
	adminLabel string
}

var localeProfiles = []localeProfile{
	{tag: language.Polish, dateLayout: "02.01.2006, 15:04:05", userLabel: "Użytkownik", adminLabel: "Admin"},
	{tag: language.German, dateLayout: "2.1.2006, 15:04:05", userLabel: "Benutzer", adminLabel: "Admin"},
	{tag: language.AmericanEnglish, dateLayout: "1/2/2006, 3:04:05 PM", userLabel: "User", adminLabel: "Admin"},
	{tag: language.BritishEnglish, dateLayout: "02/01/2006, 15:04:05", userLabel: "User", adminLabel: "Admin"},
	{tag: language.French, dateLayout: "02/01/2006 15:04:05", userLabel: "Utilisateur", adminLabel: "Admin"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeProfiles))
	for i, p := range localeProfiles {
		tags[i] = p.tag
	}
	return language.NewMatcher(tags)
}()

// matchLocale picks the closest supported profile. Unknown or malformed
// locales fall back to the first profile.
func matchLocale(locale string) localeProfile {
	tag, err := language.Parse(locale)
	if err != nil {
		return localeProfiles[0]
	}
	_, idx, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return localeProfiles[0]
	}
	return localeProfiles[idx]
}

func (p localeProfile) formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(p.dateLayout)
}
