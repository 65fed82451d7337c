package models

// WorkbookData is an ordered set of sheets.
type WorkbookData struct {
	// SheetNames lists the sheet names in document order.
	SheetNames []string `json:"sheet_names"`
	// Sheets maps sheet name to SheetData.
	Sheets map[string]*SheetData `json:"sheets"`
}

// Sheet returns the sheet with the given name, or nil.
func (w *WorkbookData) Sheet(name string) *SheetData {
	return w.Sheets[name]
}
