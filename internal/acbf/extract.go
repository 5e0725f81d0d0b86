package acbf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"comictag/internal/metadata"
)

var leadingYearRe = regexp.MustCompile(`^\d{4}`)

// selectByLangPriority picks one element from a repeatable set by its lang
// attribute: an element with no lang wins outright, then the first tagged
// "en", then the first element present.
func selectByLangPriority(elems []*etree.Element) *etree.Element {
	var enPick, anyPick *etree.Element
	for _, e := range elems {
		switch e.SelectAttrValue("lang", "") {
		case "":
			return e
		case "en":
			if enPick == nil {
				enPick = e
			}
		default:
			if anyPick == nil {
				anyPick = e
			}
		}
	}
	if enPick != nil {
		return enPick
	}
	return anyPick
}

// textWithLangFallback applies the language priority to parent's children
// with the given tag and returns the winner's text.
func textWithLangFallback(parent *etree.Element, tag string) string {
	return elementText(selectByLangPriority(parent.SelectElements(tag)))
}

// annotationText flattens an annotation element: paragraph children joined
// with blank lines, or the element's own text if it has no children.
func annotationText(e *etree.Element) string {
	var parts []string
	if children := e.ChildElements(); len(children) > 0 {
		for _, p := range children {
			if t := elementText(p); t != "" {
				parts = append(parts, t)
			}
		}
	} else if t := elementText(e); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, "\n\n")
}

// extractMetadata walks a validated, namespace-normalized tree and builds
// the normalized record. pageNames is the archive's page listing, used to
// correlate page entries back to archive positions.
func extractMetadata(root *etree.Element, pageNames []string) *metadata.Metadata {
	md := metadata.New()

	bookInfo := findPath(root, "meta-data/book-info")
	if bookInfo == nil {
		return md
	}

	if seq := bookInfo.SelectElements("sequence"); len(seq) > 0 {
		md.Series = seq[0].SelectAttrValue("title", "")
		md.Volume = seq[0].SelectAttrValue("volume", "")
		md.Issue = elementText(seq[0])
	}

	md.Title = textWithLangFallback(bookInfo, "book-title")

	// ACBF has no series field outside sequence, so a lone title is
	// really the series name.
	if md.Series == "" {
		md.Series = md.Title
		md.Title = ""
	}

	for _, g := range bookInfo.SelectElements("genre") {
		text := elementText(g)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "manga") {
			md.Manga = "Yes"
		}
		md.Genres.Add(strings.ToLower(strings.ReplaceAll(text, "_", " ")))
	}

	if anno := selectByLangPriority(bookInfo.SelectElements("annotation")); anno != nil {
		md.Description = annotationText(anno)
	}

	if publisher := findDescendant(root, "publisher"); publisher != nil {
		md.Publisher = elementText(publisher)
		md.Imprint = publisher.SelectAttrValue("imprint", "")
	}

	// The value attribute is ISO-shaped; the element text is free-form
	// and only mined for a leading year when the attribute gave none.
	if pubDate := findDescendant(root, "publish-date"); pubDate != nil {
		md.Day, md.Month, md.Year = metadata.ParseDateStr(pubDate.SelectAttrValue("value", ""))
		if md.Year == nil {
			if m := leadingYearRe.FindString(elementText(pubDate)); m != "" {
				if y, err := strconv.Atoi(m); err == nil {
					md.Year = &y
				}
			}
		}
	}

	if langs := bookInfo.SelectElements("languages"); len(langs) > 0 {
		if layers := langs[0].ChildElements(); len(layers) > 0 {
			md.Language = layers[0].SelectAttrValue("lang", "")
		}
	}

	md.MaturityRating = elementText(findDescendant(root, "content-rating"))

	for _, kw := range metadata.SplitTrim(elementText(findDescendant(root, "keywords")), ",") {
		md.Tags.Add(kw)
	}

	extractNames(bookInfo, "characters", md.Characters)
	extractNames(bookInfo, "teams", md.Teams)
	extractNames(bookInfo, "locations", md.Locations)

	for _, ref := range bookInfo.SelectElements("databaseref") {
		// IssueID/SeriesID references are source-specific and cannot be
		// trusted across taggers; only URLs survive extraction.
		if strings.EqualFold(ref.SelectAttrValue("type", ""), "url") {
			if text := elementText(ref); text != "" {
				md.WebLinks = append(md.WebLinks, metadata.ParseWebLink(text))
			}
		}
	}

	md.Identifier = elementText(findDescendant(root, "isbn"))

	for _, author := range bookInfo.SelectElements("author") {
		extractCredit(author, md)
	}

	if history := findDescendant(root, "history"); history != nil {
		var lines []string
		for _, p := range history.ChildElements() {
			if t := elementText(p); t != "" {
				lines = append(lines, t)
			}
		}
		md.Notes = strings.Join(lines, "\n")
	}

	if source := findDescendant(root, "source"); source != nil {
		for _, p := range source.ChildElements() {
			if t := elementText(p); strings.HasPrefix(t, scanMarker) {
				md.ScanInfo = strings.TrimPrefix(t, scanMarker)
				break
			}
		}
	}

	extractPages(root, bookInfo, pageNames, md)

	md.IsEmpty = false
	return md
}

// extractNames decodes a container element's name children into a set.
func extractNames(bookInfo *etree.Element, container string, into metadata.StringSet) {
	parent := bookInfo.SelectElement(container)
	if parent == nil {
		return
	}
	for _, n := range parent.SelectElements("name") {
		into.Add(elementText(n))
	}
}

// extractCredit reconstructs one credit from an author element. The name
// comes from first/middle/last if both first and last are present, else
// the nickname, else the first name alone; authors with none of those, or
// with no activity attribute, are skipped.
func extractCredit(author *etree.Element, md *metadata.Metadata) {
	role := author.SelectAttrValue("activity", "")
	if role == "" {
		return
	}
	if strings.EqualFold(role, "coverartist") {
		role = "Cover"
	}

	first := elementText(author.SelectElement("first-name"))
	middle := elementText(author.SelectElement("middle-name"))
	last := elementText(author.SelectElement("last-name"))
	nick := elementText(author.SelectElement("nickname"))

	var name string
	switch {
	case first != "" && last != "":
		if middle != "" {
			name = first + " " + middle + " " + last
		} else {
			name = first + " " + last
		}
	case nick != "":
		name = nick
	case first != "":
		name = first
	default:
		return
	}

	md.AddCredit(name, role, author.SelectAttrValue("lang", ""))
}

// extractPages rebuilds the logical page list: the book-info coverpage is
// always page 0, followed by the body's pages in document order. The
// archive index comes from matching the image href against the archive's
// page listing, falling back to the page's position here.
func extractPages(root, bookInfo *etree.Element, pageNames []string, md *metadata.Metadata) {
	var pages []*etree.Element
	if cover := bookInfo.SelectElement("coverpage"); cover != nil {
		pages = append(pages, cover)
	}
	if body := root.SelectElement("body"); body != nil {
		pages = append(pages, body.SelectElements("page")...)
	}

	nameIndex := make(map[string]int, len(pageNames))
	for i, n := range pageNames {
		nameIndex[n] = i
	}

	for i, page := range pages {
		var filename string
		if image := page.SelectElement("image"); image != nil {
			filename = image.SelectAttrValue("href", "")
		}

		archiveIndex, ok := nameIndex[filename]
		if !ok {
			archiveIndex = i
		}

		md.Pages = append(md.Pages, metadata.Page{
			Filename:     filename,
			DisplayIndex: i,
			ArchiveIndex: archiveIndex,
			Bookmark:     elementText(selectByLangPriority(page.SelectElements("title"))),
		})
	}
}
