package entities

// VerificationCheck names the kind of check a verification performed
type VerificationCheck string

// Verification check kinds
const (
	CheckChecksum  VerificationCheck = "checksum"
	CheckSignature VerificationCheck = "signature"
)

// VerificationResult is the outcome of one check on one file
type VerificationResult struct {
	Path  string
	Check VerificationCheck
	OK    bool
	Err   error
}

// VerificationSummary aggregates the results of a verification pass
type VerificationSummary struct {
	Verified int
	Failed   int
	Skipped  int
}

// Passed reports whether nothing failed
func (s VerificationSummary) Passed() bool {
	return s.Failed == 0
}
