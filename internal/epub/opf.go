package epub

import (
	"encoding/xml"
	"path"
	"strconv"
	"strings"
	"time"
)

// Package document shapes for OEBPS/content.opf. Prefixed element names are
// written verbatim; the dc namespace is declared on the metadata element.

type packageDoc struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string        `xml:"xmlns:dc,attr"`
	Identifier opfIdentifier `xml:"dc:identifier"`
	Title      string        `xml:"dc:title"`
	Language   string        `xml:"dc:language"`
	Creator    string        `xml:"dc:creator,omitempty"`
	Publisher  string        `xml:"dc:publisher,omitempty"`
	Date       string        `xml:"dc:date,omitempty"`
	Meta       []opfMeta     `xml:"meta"`
}

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

var mediaTypes = map[string]string{
	".xhtml": "application/xhtml+xml",
	".html":  "application/xhtml+xml",
	".ncx":   "application/x-dtbncx+xml",
	".css":   "text/css",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

func mediaTypeFor(href string) string {
	if mt, ok := mediaTypes[strings.ToLower(path.Ext(href))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// buildPackageDoc assembles the OPF for one book. Manifest and spine order
// follow the href slices the caller passes, which follow the spine.
func buildPackageDoc(meta Metadata, chapterHrefs []string, chapterIDs []string, assetHrefs []string, now time.Time) packageDoc {
	md := opfMetadata{
		XmlnsDC: "http://purl.org/dc/elements/1.1/",
		Identifier: opfIdentifier{
			ID:    "book-id",
			Value: meta.Identifier,
		},
		Title:     meta.Title,
		Language:  meta.Language,
		Creator:   meta.Author,
		Publisher: meta.Publisher,
		Date:      meta.Date,
		Meta: []opfMeta{
			{Property: "dcterms:modified", Value: now.UTC().Format("2006-01-02T15:04:05Z")},
		},
	}

	manifest := opfManifest{
		Items: []opfItem{
			{ID: "nav", Href: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav"},
			{ID: "ncx", Href: "toc.ncx", MediaType: "application/x-dtbncx+xml"},
		},
	}
	spine := opfSpine{Toc: "ncx"}

	for i, href := range chapterHrefs {
		manifest.Items = append(manifest.Items, opfItem{
			ID:        chapterIDs[i],
			Href:      href,
			MediaType: mediaTypeFor(href),
		})
		spine.ItemRefs = append(spine.ItemRefs, opfItemRef{IDRef: chapterIDs[i]})
	}
	for i, href := range assetHrefs {
		manifest.Items = append(manifest.Items, opfItem{
			ID:        "asset-" + strconv.Itoa(i),
			Href:      href,
			MediaType: mediaTypeFor(href),
		})
	}

	return packageDoc{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "3.0",
		UniqueIdentifier: "book-id",
		Metadata:         md,
		Manifest:         manifest,
		Spine:            spine,
	}
}

func marshalPackageDoc(doc packageDoc) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(xml.Header))
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}
