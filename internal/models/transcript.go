package models

// NotAvailable is stored in views/likes when the API does not report the statistic.
const NotAvailable = "N/A"

type VideoMetadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	UploadDate  string `json:"upload_date"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Views       string `json:"views"`
	Likes       string `json:"likes"`
}

type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type VideoTranscriptRecord struct {
	VideoMetadata
	Transcript     []TranscriptSegment `json:"transcript"`
	ExtractionDate string              `json:"extraction_date"`
	Summary        string              `json:"summary,omitempty"`
}

// TranscriptText joins the segment texts with single spaces.
func (r *VideoTranscriptRecord) TranscriptText() string {
	n := 0
	for _, seg := range r.Transcript {
		n += len(seg.Text) + 1
	}
	buf := make([]byte, 0, n)
	for _, seg := range r.Transcript {
		if seg.Text == "" {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}
