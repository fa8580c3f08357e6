package dto

// ImportResultDTO summarises a spreadsheet import: how many rows became
// questions (or users), how many were skipped, and the per-row errors.
type ImportResultDTO struct {
	Message  string   `json:"message"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
