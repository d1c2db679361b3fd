package compliance

import "errors"

var (
	ErrUnsupportedComplianceType = errors.New("unsupported compliance type")
	ErrUnknownExemptionSection   = errors.New("unknown tax exemption section")
)
