package types

// BatchJob is one job description submitted for batch optimization
type BatchJob struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name" validate:"required"`
	RoleName    string `json:"role_name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// BatchResult is the outcome of optimizing a resume for one batch job
type BatchResult struct {
	JobID            string           `json:"job_id"`
	CompanyName      string           `json:"company_name"`
	RoleName         string           `json:"role_name"`
	MatchScore       int              `json:"match_score"`
	ATSScore         int              `json:"ats_score"`
	CustomizedResume CustomizedResume `json:"customized_resume"`
	CoverLetter      string           `json:"cover_letter"`
	Explanation      string           `json:"explanation"`
	Keywords         KeywordAnalysis  `json:"keywords"`
	Analysis         *JobAnalysis     `json:"analysis,omitempty"`
}

// BatchJobRef identifies a batch result in a comparison
type BatchJobRef struct {
	JobID       string `json:"job_id"`
	CompanyName string `json:"company_name"`
	RoleName    string `json:"role_name"`
	MatchScore  int    `json:"match_score"`
}

// ScoreRange is the min/max match score across a batch
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// BatchComparison summarizes a batch of results side by side
type BatchComparison struct {
	TotalJobs         int         `json:"total_jobs"`
	AverageMatchScore int         `json:"average_match_score"`
	AverageATSScore   int         `json:"average_ats_score"`
	BestMatch         BatchJobRef `json:"best_match"`
	WorstMatch        BatchJobRef `json:"worst_match"`
	ScoreRange        ScoreRange  `json:"score_range"`
}

// KeywordCount is a matched keyword and how many batch results matched it
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// CommonKeywords buckets matched keywords by how widely they recur across a batch
type CommonKeywords struct {
	Universal []string       `json:"universal"`
	Frequent  []KeywordCount `json:"frequent"`
	Rare      []KeywordCount `json:"rare"`
}
