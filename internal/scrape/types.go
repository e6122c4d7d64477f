package scrape

// CandidateURL is a normalized absolute http(s) URL, unique within a run.
type CandidateURL string

// String returns the URL text.
func (u CandidateURL) String() string { return string(u) }

// Task is one unit of pipeline work. Position is the URL's index in the
// normalized input and decides where its result lands.
type Task struct {
	URL      CandidateURL
	Position int
}

// TaskState tracks a task through the pipeline.
type TaskState string

// Task states. Every task ends in TaskSucceeded or TaskFailed.
const (
	TaskPending    TaskState = "pending"
	TaskFetching   TaskState = "fetching"
	TaskExtracting TaskState = "extracting_content"
	TaskSucceeded  TaskState = "success"
	TaskFailed     TaskState = "error"
)

// Terminal reports whether no further transition is possible.
func (s TaskState) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

// Page is a successful (2xx) fetch.
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Response is the ordered batch result of a run.
type Response struct {
	ScrapedData []Result `json:"scraped_data" yaml:"scraped_data"`
}

// Counts returns how many results succeeded and failed.
func (r Response) Counts() (succeeded, failed int) {
	for _, res := range r.ScrapedData {
		if res.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
