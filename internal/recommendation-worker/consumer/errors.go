package consumer

import "errors"

var (
	errMissingMatchID         = errors.New("prediction set missing match_id")
	errNoPredictions          = errors.New("prediction set has no predictions")
	errBadProbability         = errors.New("true_probability outside (0,1)")
	errBadConfidence          = errors.New("confidence outside [0,100]")
	errInconsistentConfidence = errors.New("confidence and true_probability diverge")
	errBadSide                = errors.New("recommended side invalid")
)
