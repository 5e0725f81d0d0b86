package metadata

import "strings"

// Credit role synonym tables. Tagging sources disagree on role spelling, so
// adapters match incoming roles against these case-folded sets when they
// need to map a free-form role onto a schema's closed role vocabulary.
var (
	WriterSynonyms     = NewStringSet("writer", "plotter", "scripter", "script", "story", "plot")
	PencillerSynonyms  = NewStringSet("artist", "penciller", "penciler", "breakdowns", "pencils", "painting")
	InkerSynonyms      = NewStringSet("inker", "artist", "finishes", "inks", "painting")
	ColoristSynonyms   = NewStringSet("colorist", "colourist", "colorer", "colourer", "colors", "painting")
	LettererSynonyms   = NewStringSet("letterer", "letters")
	CoverSynonyms      = NewStringSet("cover", "covers", "coverartist", "cover artist")
	EditorSynonyms     = NewStringSet("editor", "edits", "editing")
	TranslatorSynonyms = NewStringSet("translator", "translation")
)

// RoleMatches reports whether role, case-folded, is a member of the
// synonym set.
func RoleMatches(set StringSet, role string) bool {
	return set.Has(strings.ToLower(role))
}
