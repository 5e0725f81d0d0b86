package acbf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"comictag/internal/metadata"
)

// allowedGenres is the closed set of genre values the ACBF schema accepts.
var allowedGenres = metadata.NewStringSet(
	"other", "adult", "adventure", "alternative", "artbook", "biography",
	"caricature", "children", "computer", "crime", "education", "fantasy",
	"history", "horror", "humor", "manga", "military", "mystery",
	"non-fiction", "politics", "real_life", "religion", "romance",
	"science_fiction", "sports", "superhero", "western",
)

// mergeMetadata applies a normalized record onto an existing document (or
// a fresh minimal tree when existing is empty) and returns the updated
// root. Fields the record does not populate leave the tree untouched;
// populated fields follow per-field replace/append/dedup policies so
// unrelated hand-authored structure survives the write.
func mergeMetadata(md *metadata.Metadata, existing []byte) (*etree.Element, error) {
	var root *etree.Element
	if len(existing) > 0 {
		doc, err := loadDocument(existing)
		if err != nil {
			return nil, fmt.Errorf("cannot merge into existing entry: %w", err)
		}
		root = doc.Root()
	} else {
		root = etree.NewElement(rootTag)
	}
	// Output is always stamped with the newest supported version,
	// whichever version was read.
	root.CreateAttr("xmlns", nsACBF12)

	bookInfo := resolveOrCreate(root, "meta-data/book-info")

	mergeCredits(md, bookInfo)
	mergeSequence(md, bookInfo)
	mergeTitle(md, bookInfo)
	mergeGenres(md, bookInfo)
	mergeDescription(md, bookInfo)
	mergeWebLinks(md, bookInfo)
	mergeMaturityRating(md, bookInfo)

	if md.Tags.Len() > 0 {
		setPathText(root, "meta-data/book-info/keywords", md.Tags.Join(", "))
	}

	mergeNameSet(md.Characters, root, "characters")
	mergeNameSet(md.Teams, root, "teams")
	mergeNameSet(md.Locations, root, "locations")

	mergeDatabaseIDs(md, bookInfo)
	mergePublishInfo(md, root)
	mergeDocumentInfo(md, root)
	mergePages(md, root, bookInfo)

	return root, nil
}

// mergeCredits wipes every author element and regenerates one per credit,
// mapping free-form roles through the synonym tables onto the schema's
// closed activity vocabulary. Synonym order matters: "artist" belongs to
// several sets and must resolve to Artist, not Penciller.
func mergeCredits(md *metadata.Metadata, bookInfo *etree.Element) {
	removeChildren(bookInfo, "author")

	for _, c := range md.Credits {
		role := strings.ToLower(c.Role)
		switch {
		case metadata.RoleMatches(metadata.WriterSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Writer", c.Language)
		case role == "adapter":
			addAuthor(bookInfo, c.Person, "Adapter", c.Language)
		case role == "artist":
			addAuthor(bookInfo, c.Person, "Artist", "")
		case metadata.RoleMatches(metadata.PencillerSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Penciller", "")
		case metadata.RoleMatches(metadata.InkerSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Inker", "")
		case metadata.RoleMatches(metadata.ColoristSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Colorist", "")
		case role == "photographer" || role == "photo":
			addAuthor(bookInfo, c.Person, "Photographer", "")
		case metadata.RoleMatches(metadata.LettererSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Letterer", c.Language)
		case metadata.RoleMatches(metadata.CoverSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "CoverArtist", "")
		case metadata.RoleMatches(metadata.EditorSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Editor", c.Language)
		case role == "assistant editor":
			addAuthor(bookInfo, c.Person, "Assistant Editor", c.Language)
		case metadata.RoleMatches(metadata.TranslatorSynonyms, c.Role):
			addAuthor(bookInfo, c.Person, "Translator", c.Language)
		default:
			addAuthor(bookInfo, c.Person, "Other", c.Language)
		}
	}
}

// addAuthor splits a display name back into ACBF name parts. The record
// has no first/last structure, so this is a whitespace heuristic: one
// token is a nickname, two are first+last, three or more are
// first+middle+last with the rest dropped. Compound surnames and suffixes
// are knowingly mangled; interoperating tools expect exactly this split.
func addAuthor(bookInfo *etree.Element, person, activity, lang string) {
	var first, middle, last, nick string
	tokens := strings.Fields(person)
	switch {
	case len(tokens) == 1:
		nick = tokens[0]
	case len(tokens) == 2:
		first, last = tokens[0], tokens[1]
	case len(tokens) > 2:
		first, middle, last = tokens[0], tokens[1], tokens[2]
	}
	if first == "" && last == "" && nick == "" {
		return
	}

	author := bookInfo.CreateElement("author")
	author.CreateAttr("activity", activity)
	if lang != "" {
		author.CreateAttr("lang", lang)
	}
	if first != "" {
		author.CreateElement("first-name").SetText(first)
	}
	if middle != "" {
		author.CreateElement("middle-name").SetText(middle)
	}
	if last != "" {
		author.CreateElement("last-name").SetText(last)
	}
	if nick != "" {
		author.CreateElement("nickname").SetText(nick)
	}
}

// mergeSequence rewrites a lone sequence element in place. When several
// exist (alternate numbering schemes), they are all kept except an exact
// duplicate of the new issue number, and a fresh one is appended.
func mergeSequence(md *metadata.Metadata, bookInfo *etree.Element) {
	if md.Series == "" {
		return
	}

	seqs := bookInfo.SelectElements("sequence")
	var seq *etree.Element
	if len(seqs) == 1 {
		seq = seqs[0]
		clearElement(seq)
	} else {
		for _, s := range seqs {
			if elementText(s) == md.Issue {
				bookInfo.RemoveChild(s)
			}
		}
		seq = bookInfo.CreateElement("sequence")
	}

	seq.CreateAttr("title", md.Series)
	if md.Issue != "" {
		seq.SetText(md.Issue)
	}
	if md.Volume != "" {
		seq.CreateAttr("volume", md.Volume)
	}
}

// mergeTitle empties any title the new one supersedes (no lang, or "en")
// and appends the record's title, tagged with the record language if set.
func mergeTitle(md *metadata.Metadata, bookInfo *etree.Element) {
	if md.Title == "" {
		return
	}

	for _, t := range bookInfo.SelectElements("book-title") {
		lang := t.SelectAttrValue("lang", "")
		if lang == "" || lang == "en" {
			clearElement(t)
		}
	}

	t := bookInfo.CreateElement("book-title")
	t.SetText(md.Title)
	if md.Language != "" {
		t.CreateAttr("lang", md.Language)
	}
}

// mergeGenres regenerates the genre list restricted to the schema's
// allow-list, carrying over a numeric match attribute from any existing
// element with the same text.
func mergeGenres(md *metadata.Metadata, bookInfo *etree.Element) {
	type prevGenre struct {
		text  string
		match string
	}
	var prev []prevGenre
	for _, g := range bookInfo.SelectElements("genre") {
		prev = append(prev, prevGenre{text: elementText(g), match: g.SelectAttrValue("match", "")})
	}
	removeChildren(bookInfo, "genre")

	genres := metadata.NewStringSet(md.Genres.Items()...)
	if strings.HasPrefix(strings.ToLower(md.Manga), "yes") {
		genres.Add("manga")
	}

	for _, g := range genres.Items() {
		g = strings.ReplaceAll(strings.ToLower(g), " ", "_")
		if g == "historical" {
			g = "history"
		}
		if !allowedGenres.Has(g) {
			continue
		}

		match := 0
		for _, pg := range prev {
			if pg.text == g {
				if v, err := strconv.Atoi(pg.match); err == nil {
					match = v
				}
				break
			}
		}

		elem := bookInfo.CreateElement("genre")
		elem.SetText(g)
		if match > 0 {
			elem.CreateAttr("match", strconv.Itoa(match))
		}
	}
}

// mergeDescription appends an annotation only when no existing annotation
// already holds the same paragraphs. The comparison is paragraph-by-
// paragraph when the annotation is structured, whole-text otherwise. When
// the record carries a language, an existing annotation in that language
// is replaced instead of duplicated.
func mergeDescription(md *metadata.Metadata, bookInfo *etree.Element) {
	if md.Description == "" {
		return
	}
	paras := strings.Split(md.Description, "\n\n")

	for _, anno := range bookInfo.SelectElements("annotation") {
		if children := anno.ChildElements(); len(children) > 0 {
			if len(children) != len(paras) {
				continue
			}
			same := true
			for i, p := range children {
				if elementText(p) != paras[i] {
					same = false
					break
				}
			}
			if same {
				return
			}
		} else if elementText(anno) == md.Description {
			// Improperly formatted annotation without p children.
			return
		}
	}

	anno := bookInfo.CreateElement("annotation")
	for _, p := range paras {
		anno.CreateElement("p").SetText(p)
	}
	if md.Language != "" {
		for _, a := range bookInfo.SelectElements("annotation") {
			if a != anno && a.SelectAttrValue("lang", "") == md.Language {
				bookInfo.RemoveChild(a)
				break
			}
		}
		anno.CreateAttr("lang", md.Language)
	}
}

// mergeWebLinks replaces every URL-typed database reference with the
// record's links. References of other types (IssueID, SeriesID, ...) are
// untouched here.
func mergeWebLinks(md *metadata.Metadata, bookInfo *etree.Element) {
	if len(md.WebLinks) == 0 {
		return
	}
	for _, ref := range bookInfo.SelectElements("databaseref") {
		if strings.EqualFold(ref.SelectAttrValue("type", ""), "url") {
			bookInfo.RemoveChild(ref)
		}
	}
	for _, link := range md.WebLinks {
		ref := bookInfo.CreateElement("databaseref")
		ref.SetText(link.URL)
		ref.CreateAttr("type", "URL")
		ref.CreateAttr("dbname", md.DataOriginName())
	}
}

func mergeMaturityRating(md *metadata.Metadata, bookInfo *etree.Element) {
	if md.MaturityRating == "" {
		return
	}
	for _, rate := range bookInfo.SelectElements("content-rating") {
		if elementText(rate) == md.MaturityRating {
			return
		}
	}
	bookInfo.CreateElement("content-rating").SetText(md.MaturityRating)
}

// mergeNameSet regenerates a name-list container (characters, teams,
// locations) from the record's set.
func mergeNameSet(set metadata.StringSet, root *etree.Element, container string) {
	if set.Len() == 0 {
		return
	}
	parent := resolveOrCreate(root, "meta-data/book-info/"+container)
	clearElement(parent)
	for _, name := range set.Items() {
		parent.CreateElement("name").SetText(name)
	}
}

// mergeDatabaseIDs adds IssueID/SeriesID references, deduplicated by
// reference type plus text so a second identical write is a no-op.
func mergeDatabaseIDs(md *metadata.Metadata, bookInfo *etree.Element) {
	if md.IssueID == "" && md.SeriesID == "" {
		return
	}

	addIssue, addSeries := true, true
	for _, ref := range bookInfo.SelectElements("databaseref") {
		switch strings.ToLower(ref.SelectAttrValue("type", "")) {
		case "issueid", "issue_id", "issue-id":
			if md.IssueID != "" && elementText(ref) == md.IssueID {
				addIssue = false
			}
		case "seriesid", "series_id", "series-id":
			if md.SeriesID != "" && elementText(ref) == md.SeriesID {
				addSeries = false
			}
		}
	}

	if md.IssueID != "" && addIssue {
		ref := bookInfo.CreateElement("databaseref")
		ref.SetText(md.IssueID)
		ref.CreateAttr("type", "IssueID")
		ref.CreateAttr("dbname", md.DataOriginName())
	}
	if md.SeriesID != "" && addSeries {
		ref := bookInfo.CreateElement("databaseref")
		ref.SetText(md.SeriesID)
		ref.CreateAttr("type", "SeriesID")
		ref.CreateAttr("dbname", md.DataOriginName())
	}
}

func mergePublishInfo(md *metadata.Metadata, root *etree.Element) {
	publishInfo := resolveOrCreate(root, "meta-data/publish-info")

	if md.Identifier != "" {
		setPathText(root, "meta-data/publish-info/isbn", md.Identifier)
	}

	if md.Publisher != "" {
		publisher := resolveOrCreate(root, "meta-data/publish-info/publisher")
		if md.Imprint == "" {
			publisher.Attr = nil
		}
		publisher.SetText(md.Publisher)
		if md.Imprint != "" {
			publisher.CreateAttr("imprint", md.Imprint)
		}
	} else {
		removeChildren(publishInfo, "publisher")
	}

	if md.Year != nil && *md.Year != 0 {
		day, month := 1, 1
		if md.Day != nil && *md.Day != 0 {
			day = *md.Day
		}
		if md.Month != nil && *md.Month != 0 {
			month = *md.Month
		}
		year := normalizeYear(*md.Year)

		pubDate := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		element := resolveOrCreate(root, "meta-data/publish-info/publish-date")
		element.SetText(pubDate)
		element.CreateAttr("value", pubDate)
	}
}

// normalizeYear expands two-digit years: below 50 is 20xx, 50-99 is 19xx.
func normalizeYear(year int) int {
	switch {
	case year >= 0 && year < 50:
		return 2000 + year
	case year >= 50 && year < 100:
		return 1900 + year
	default:
		return year
	}
}

func mergeDocumentInfo(md *metadata.Metadata, root *etree.Element) {
	if md.Notes != "" {
		history := resolveOrCreate(root, "meta-data/document-info/history")
		clearElement(history)
		for _, line := range strings.Split(md.Notes, "\n") {
			history.CreateElement("p").SetText(line)
		}
	}

	if md.ScanInfo != "" {
		source := resolveOrCreate(root, "meta-data/document-info/source")
		for _, p := range source.ChildElements() {
			if strings.HasPrefix(elementText(p), scanMarker) {
				source.RemoveChild(p)
			}
		}
		source.CreateElement("p").SetText(scanMarker + md.ScanInfo)
	}
}

// mergePages rebuilds the body's page list in display order, reusing any
// existing page element whose image matches by filename. The entry at
// display position 0 becomes the book-info coverpage; everything else
// lands in the body, whose own attributes (background color and friends)
// survive the rebuild.
func mergePages(md *metadata.Metadata, root, bookInfo *etree.Element) {
	body := resolveOrCreate(root, "body")

	pageByFile := make(map[string]*etree.Element)

	// The cover lives apart from the body; retag it as a page so it
	// participates in uniform filename matching.
	if cover := bookInfo.SelectElement("coverpage"); cover != nil {
		if image := cover.SelectElement("image"); image != nil {
			if href := image.SelectAttrValue("href", ""); href != "" {
				cover.Tag = "page"
				pageByFile[href] = cover
			}
		}
		bookInfo.RemoveChild(cover)
	}
	for _, p := range body.SelectElements("page") {
		if image := p.SelectElement("image"); image != nil {
			if href := image.SelectAttrValue("href", ""); href != "" {
				pageByFile[href] = p
			}
		}
	}

	// Empty the body child by child so reused page elements end up
	// cleanly detached before they are re-added below. The body's own
	// attributes (background color and friends) are left in place.
	for len(body.Child) > 0 {
		body.RemoveChildAt(0)
	}

	pages := append([]metadata.Page(nil), md.Pages...)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].DisplayIndex < pages[j].DisplayIndex
	})

	for i, page := range pages {
		elem := pageByFile[page.Filename]
		if elem == nil {
			elem = etree.NewElement("page")
			elem.CreateElement("image").CreateAttr("href", page.Filename)
		} else if page.Bookmark != "" {
			// A missing lang is presumed en; drop either so the new
			// bookmark takes their place.
			for _, t := range elem.SelectElements("title") {
				lang := t.SelectAttrValue("lang", "")
				if lang == "" || lang == "en" {
					elem.RemoveChild(t)
				}
			}
		}

		if page.Bookmark != "" {
			title := elem.CreateElement("title")
			title.SetText(page.Bookmark)
			if md.Language != "" {
				title.CreateAttr("lang", md.Language)
			}
		}

		if i == 0 {
			elem.Tag = "coverpage"
			bookInfo.AddChild(elem)
		} else {
			body.AddChild(elem)
		}
	}
}

// setPathText resolves (or creates) path and replaces its text.
func setPathText(root *etree.Element, path, value string) {
	resolveOrCreate(root, path).SetText(value)
}

// removeChildren drops every child of parent with the given tag.
func removeChildren(parent *etree.Element, tag string) {
	for _, c := range parent.SelectElements(tag) {
		parent.RemoveChild(c)
	}
}
