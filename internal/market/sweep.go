package market

// SweepResult reports one batch pass: how many entities transitioned, which
// ones, and the per-item errors. One failing item never aborts the batch, so
// Processed counts successes and Errors holds whatever went wrong alongside.
type SweepResult struct {
	Processed int
	EntityIDs []string
	Errors    []error
}

func (r *SweepResult) Ok(id string) {
	r.Processed++
	r.EntityIDs = append(r.EntityIDs, id)
}

func (r *SweepResult) Fail(err error) {
	r.Errors = append(r.Errors, err)
}
