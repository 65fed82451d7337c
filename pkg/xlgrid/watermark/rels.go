package watermark

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/archive"
)

const (
	workbookPart     = "xl/workbook.xml"
	workbookRelsPart = "xl/_rels/workbook.xml.rels"
	contentTypesPart = "[Content_Types].xml"
)

// relationship is one entry of a relationship sidecar part.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipList struct {
	Items []relationship `xml:"Relationship"`
}

// workbookSheet is a <sheet> entry of workbook.xml; RelID is its r:id.
type workbookSheet struct {
	Name  string `xml:"name,attr"`
	RelID string `xml:"id,attr"`
}

type workbookDoc struct {
	Sheets []workbookSheet `xml:"sheets>sheet"`
}

// relsPath returns the relationship sidecar path of a part.
func relsPath(partPath string) string {
	return path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")
}

// ownerDir returns the directory relationship targets in a sidecar resolve against.
func ownerDir(relsPartPath string) string {
	return path.Dir(path.Dir(relsPartPath))
}

// resolveTarget resolves a relationship target against the owning part's directory.
func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Clean(path.Join("/", baseDir, target)), "/")
}

// parseRelationships decodes a sidecar part. Malformed data yields nil.
func parseRelationships(data []byte) []relationship {
	var doc relationshipList
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.Items
}

// parseWorkbookSheets returns the sheets declared in workbook.xml in order.
// Entries without a name or relationship id are dropped.
func parseWorkbookSheets(data []byte) []workbookSheet {
	var doc workbookDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	sheets := doc.Sheets[:0]
	for _, ws := range doc.Sheets {
		if ws.Name != "" && ws.RelID != "" {
			sheets = append(sheets, ws)
		}
	}
	return sheets
}

// sheetParts maps sheet names to their worksheet part paths.
func sheetParts(a *archive.Archive) map[string]string {
	result := make(map[string]string)

	workbookXML, err := a.Get(workbookPart)
	if err != nil {
		return result
	}
	byRel := make(map[string]string)
	for _, ws := range parseWorkbookSheets(workbookXML) {
		byRel[ws.RelID] = ws.Name
	}
	if len(byRel) == 0 {
		return result
	}

	wbRelsXML, err := a.Get(workbookRelsPart)
	if err != nil {
		return result
	}
	for _, rel := range parseRelationships(wbRelsXML) {
		if sheetName, ok := byRel[rel.ID]; ok && strings.Contains(strings.ToLower(rel.Type+rel.Target), "worksheet") {
			result[sheetName] = resolveTarget("xl", rel.Target)
		}
	}

	return result
}

// hasDefaultExtension reports whether a content-type declaration registers ext.
func hasDefaultExtension(data []byte, ext string) bool {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			return false
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Default" {
			for _, attr := range se.Attr {
				if attr.Name.Local == "Extension" && strings.EqualFold(attr.Value, ext) {
					return true
				}
			}
		}
	}
}

// referencedTargets returns every part path referenced from any sidecar.
func referencedTargets(a *archive.Archive) map[string]bool {
	result := make(map[string]bool)
	for _, name := range a.Names() {
		if !strings.HasSuffix(name, ".rels") {
			continue
		}
		data, err := a.Get(name)
		if err != nil {
			continue
		}
		base := ownerDir(name)
		for _, rel := range parseRelationships(data) {
			if rel.Target != "" {
				result[resolveTarget(base, rel.Target)] = true
			}
		}
	}
	return result
}
