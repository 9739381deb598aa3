package excel

// ExcelData is a raw table read from a file before cells are typed
type ExcelData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, positionally aligned with Headers
}
