package domain

// EstimateRequest is the canonical estimation input, independent of the
// envelope the caller used.
type EstimateRequest struct {
	ProductName   string
	Description   string
	CategoryPath  string
	ImageURLs     []string
	DeclaredPrice float64
}
