package markdown

import (
	"regexp"
	"sort"
	"strings"
)

// Regexes to match the syntaxes supported inside documents.
// Targets cannot contain brackets (resp. parentheses) to avoid a lazy match
// spanning from one link to the next one on the same line.
var (
	regexAttachmentWiki     = regexp.MustCompile(`!\[\[(([^\[\]\n]*?)\.(\w+))(?:\s*\|\s*(?P<width>\d+%?)\s*(?:[*|x]\s*(?P<height>\d+%?))?)?\]\]`)
	regexAttachmentMarkdown = regexp.MustCompile(`!\[([^\]\n]*?)\]\((([^()\n]*?)\.(\w+))\)`)
	regexEmbed              = regexp.MustCompile(`(?s)!\[\[(.*?)\]\]`)
	regexWikilink           = regexp.MustCompile(`\[\[(.*?)\]\]`) // Golang doesn't support negative lookbehind
)

// Match is an occurrence of a syntax inside a document.
type Match struct {
	// The full original text
	Raw string
	// Byte offsets in the document
	Start int
	End   int
}

// AttachmentRef is a reference to an attachment using ![[file.ext|WxH]] or ![alt](file.ext).
type AttachmentRef struct {
	Match
	// Target as written in the document (possibly percent-encoded)
	Target string
	// Byte offsets of the target in the document
	TargetStart int
	TargetEnd   int
	// Optional dimensions ("100", "50%")
	Width  string
	Height string
	// Wiki syntax or Markdown syntax
	Wiki bool
}

// External returns if the attachment points to a remote URL.
func (a AttachmentRef) External() bool {
	return strings.HasPrefix(a.Target, "http")
}

// EmbedRef is a reference to transcluded content using ![[...]].
type EmbedRef struct {
	Match
	Link string
}

// OutgoingLinkRef is a wikilink [[...]] not preceded by !.
type OutgoingLinkRef struct {
	Match
	Link string
}

// Wikilink parses the inner text of the link.
func (o OutgoingLinkRef) Wikilink() Wikilink {
	return ParseWikilink(o.Link)
}

// Wikilink parses the inner text of the embed.
func (e EmbedRef) Wikilink() Wikilink {
	return ParseWikilink(e.Link)
}

// Attachments searches for attachments. Wiki references come first, followed by Markdown references.
// Embedded Markdown documents (ex: ![[note.md]]) are not attachments.
func (m Document) Attachments() []AttachmentRef {
	var results []AttachmentRef

	text := string(m)

	for _, match := range regexAttachmentWiki.FindAllStringSubmatchIndex(text, -1) {
		if strings.EqualFold(text[match[6]:match[7]], "md") {
			continue
		}
		ref := AttachmentRef{
			Match:       newMatch(text, match),
			Target:      text[match[2]:match[3]],
			TargetStart: match[2],
			TargetEnd:   match[3],
			Wiki:        true,
		}
		if match[8] != -1 {
			ref.Width = text[match[8]:match[9]]
		}
		if match[10] != -1 {
			ref.Height = text[match[10]:match[11]]
		}
		results = append(results, ref)
	}

	for _, match := range regexAttachmentMarkdown.FindAllStringSubmatchIndex(text, -1) {
		results = append(results, AttachmentRef{
			Match:       newMatch(text, match),
			Target:      text[match[4]:match[5]],
			TargetStart: match[4],
			TargetEnd:   match[5],
		})
	}

	return results
}

// Embeds searches for ![[...]] references. The inner text can span multiple lines.
func (m Document) Embeds() []EmbedRef {
	var results []EmbedRef

	text := string(m)
	for _, match := range regexEmbed.FindAllStringSubmatchIndex(text, -1) {
		results = append(results, EmbedRef{
			Match: newMatch(text, match),
			Link:  text[match[2]:match[3]],
		})
	}
	return results
}

// OutgoingLinks searches for [[...]] references not preceded by !.
func (m Document) OutgoingLinks() []OutgoingLinkRef {
	var results []OutgoingLinkRef

	text := string(m)
	for _, match := range regexWikilink.FindAllStringSubmatchIndex(text, -1) {
		if match[0] > 0 && text[match[0]-1] == '!' {
			continue
		}
		results = append(results, OutgoingLinkRef{
			Match: newMatch(text, match),
			Link:  text[match[2]:match[3]],
		})
	}
	return results
}

func newMatch(text string, match []int) Match {
	return Match{
		Raw:   text[match[0]:match[1]],
		Start: match[0],
		End:   match[1],
	}
}

/*
 * Replacements
 */

// Replacement replaces a range of bytes in a document.
type Replacement struct {
	Start int
	End   int
	Text  string
}

// Replace creates a replacement for the whole match.
func (m Match) Replace(text string) Replacement {
	return Replacement{Start: m.Start, End: m.End, Text: text}
}

// Splice applies the replacements in position order.
// Overlapping replacements are ignored (the first one wins).
// Each occurrence is replaced independently, even when the same raw text is repeated.
func (m Document) Splice(replacements []Replacement) Document {
	if len(replacements) == 0 {
		return m
	}

	sorted := make([]Replacement, len(replacements))
	copy(sorted, replacements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	text := string(m)

	var sb strings.Builder
	last := 0
	for _, r := range sorted {
		if r.Start < last || r.End > len(text) {
			continue
		}
		sb.WriteString(text[last:r.Start])
		sb.WriteString(r.Text)
		last = r.End
	}
	sb.WriteString(text[last:])
	return Document(sb.String())
}
