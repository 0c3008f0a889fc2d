package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/talentwire/ingest/internal/model"
)

// Raw WordprocessingML part access for everything go-docx does not surface:
// section headers/footers, style definitions and text-frame content.

// readHeaderFooterParts collects the non-empty paragraphs of every
// word/headerN.xml and word/footerN.xml part, in part-name order.
func readHeaderFooterParts(zr *zip.Reader) (headers, footers []string, err error) {
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		isHeader := strings.HasPrefix(name, "word/header") && strings.HasSuffix(name, ".xml")
		isFooter := strings.HasPrefix(name, "word/footer") && strings.HasSuffix(name, ".xml")
		if !isHeader && !isFooter {
			continue
		}
		texts, err := partParagraphs(zr, name)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		if isHeader {
			headers = append(headers, texts...)
		} else {
			footers = append(footers, texts...)
		}
	}
	return headers, footers, nil
}

// partParagraphs returns the trimmed, non-empty paragraph texts of an XML part.
func partParagraphs(zr *zip.Reader, name string) ([]string, error) {
	rc, err := openPart(zr, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return collectParagraphs(rc, "")
}

// readTextFrames returns the paragraph texts found inside w:txbxContent
// elements of the main document part. These hold inline and floating text
// boxes, which the body item walk never visits.
func readTextFrames(zr *zip.Reader) ([]string, error) {
	rc, err := openPart(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return collectParagraphs(rc, "txbxContent")
}

// collectParagraphs streams an XML part and gathers paragraph texts. When
// within is non-empty, only paragraphs nested inside an element with that
// local name are collected.
func collectParagraphs(r io.Reader, within string) ([]string, error) {
	dec := xml.NewDecoder(r)
	var texts []string
	var para strings.Builder
	inPara := false
	scopeDepth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case within:
				scopeDepth++
			case "p":
				if within == "" || scopeDepth > 0 {
					inPara = true
					para.Reset()
				}
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case within:
				scopeDepth--
			case "p":
				if inPara {
					if text := strings.TrimSpace(para.String()); text != "" {
						texts = append(texts, text)
					}
					inPara = false
				}
			}
		case xml.CharData:
			if inPara {
				para.Write(t)
			}
		}
	}
	return texts, nil
}

// styles.xml shapes. Namespaces are ignored on purpose: matching by local
// name keeps this tolerant of the transitional/strict OOXML variants.
type stylesPart struct {
	Styles []stylePart `xml:"style"`
}

type stylePart struct {
	Name struct {
		Val string `xml:"val,attr"`
	} `xml:"name"`
	RunProps *runProps `xml:"rPr"`
}

type runProps struct {
	Fonts *struct {
		ASCII string `xml:"ascii,attr"`
	} `xml:"rFonts"`
	Size *struct {
		Val string `xml:"val,attr"`
	} `xml:"sz"`
	Bold   *toggleProp `xml:"b"`
	Italic *toggleProp `xml:"i"`
	Under  *struct {
		Val string `xml:"val,attr"`
	} `xml:"u"`
}

type toggleProp struct {
	Val string `xml:"val,attr"`
}

// readStylePart maps word/styles.xml into StyleInfo keyed by style name,
// pulling font name/size and the bold/italic/underline flags where present.
// A package without a styles part yields an empty map.
func readStylePart(zr *zip.Reader) (map[string]model.StyleInfo, error) {
	rc, err := openPart(zr, "word/styles.xml")
	if err != nil {
		return map[string]model.StyleInfo{}, nil
	}
	defer rc.Close()

	var part stylesPart
	if err := xml.NewDecoder(rc).Decode(&part); err != nil {
		return nil, fmt.Errorf("decode styles part: %w", err)
	}

	styles := make(map[string]model.StyleInfo, len(part.Styles))
	for _, s := range part.Styles {
		if s.Name.Val == "" {
			continue
		}
		info := model.StyleInfo{Name: s.Name.Val}
		if rp := s.RunProps; rp != nil {
			if rp.Fonts != nil {
				info.FontName = rp.Fonts.ASCII
			}
			if rp.Size != nil {
				// w:sz is measured in half-points.
				if half, err := strconv.ParseFloat(rp.Size.Val, 64); err == nil {
					info.FontSize = half / 2
				}
			}
			if rp.Bold != nil {
				info.IsBold = boolPtr(toggleOn(rp.Bold.Val))
			}
			if rp.Italic != nil {
				info.IsItalic = boolPtr(toggleOn(rp.Italic.Val))
			}
			if rp.Under != nil {
				info.IsUnderline = boolPtr(rp.Under.Val != "none" && rp.Under.Val != "")
			}
		}
		styles[s.Name.Val] = info
	}
	return styles, nil
}

// toggleOn interprets an OOXML on/off property value; an absent value means on.
func toggleOn(val string) bool {
	return val != "0" && val != "false" && val != "off"
}

func boolPtr(b bool) *bool { return &b }

func openPart(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("part %s not found", name)
}
