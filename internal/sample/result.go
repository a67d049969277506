package sample

// Kind distinguishes individual samples from aggregated ones.
type Kind int

const (
	// Plain is a single request/response sample.
	Plain Kind = iota
	// Statistical is an aggregate of SampleCount samples, ErrorCount of which failed.
	Statistical
)

func (k Kind) String() string {
	if k == Statistical {
		return "statistical"
	}
	return "plain"
}

// AssertionResult is the outcome of one assertion applied to a sample.
type AssertionResult struct {
	Name           string `json:"name"`
	Failure        bool   `json:"failure"`
	Error          bool   `json:"error"`
	FailureMessage string `json:"failure_message,omitempty"`
}

// Result is one sample of a load test run.
//
// Times are milliseconds; TimeStamp is milliseconds since the Unix epoch.
type Result struct {
	Kind Kind `json:"kind"`

	TimeStamp int64 `json:"timestamp"`
	Elapsed   int64 `json:"elapsed"`
	Latency   int64 `json:"latency"`

	Label           string `json:"label"`
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
	ThreadName      string `json:"thread_name"`
	DataType        string `json:"data_type"`
	Success         bool   `json:"success"`
	Bytes           int    `json:"bytes"`

	GroupThreads int `json:"grp_threads"`
	AllThreads   int `json:"all_threads"`

	URL            string `json:"url"`
	ResultFileName string `json:"result_file_name"`
	DataEncoding   string `json:"data_encoding"`
	Hostname       string `json:"hostname"`

	SampleCount int `json:"sample_count"`
	ErrorCount  int `json:"error_count"`

	SubResults []*Result         `json:"sub_results,omitempty"`
	Assertions []AssertionResult `json:"assertions,omitempty"`
}

// New returns an empty result of the given kind. A plain result always
// counts as one sample.
func New(kind Kind) *Result {
	return &Result{Kind: kind, SampleCount: 1}
}

// FirstFailureMessage returns the first non-empty assertion failure
// message, or "" if there is none.
func (r *Result) FirstFailureMessage() string {
	for _, a := range r.Assertions {
		if a.FailureMessage != "" {
			return a.FailureMessage
		}
	}
	return ""
}

// Samples returns how many samples r stands for.
func (r *Result) Samples() int {
	if r.Kind == Statistical {
		return r.SampleCount
	}
	return 1
}

// Errors returns how many of r's samples failed.
func (r *Result) Errors() int {
	if r.Kind == Statistical {
		return r.ErrorCount
	}
	if r.Success {
		return 0
	}
	return 1
}
