package models

// UploadedResume lives for a single request. Index starts at 1 and matches
// the "Candidate N" label used in the prompt.
type UploadedResume struct {
	Index            int    `json:"index"`
	OriginalFileName string `json:"original_filename"`
	Data             []byte `json:"-"`
	Text             string `json:"-"`
}

// CharCount returns the number of characters in the extracted text.
func (r *UploadedResume) CharCount() int {
	return len([]rune(r.Text))
}
