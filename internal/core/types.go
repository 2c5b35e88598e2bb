package core

import "chemcore/pkg/chem"

type (
	Severity            = chem.Severity
	Violation           = chem.Violation
	CheckResult         = chem.CheckResult
	Check               = chem.Check
	CheckEngine         = chem.CheckEngine
	CheckViolationError = chem.CheckViolationError
	RegistrySnapshot    = chem.RegistrySnapshot
	SnapshotStore       = chem.SnapshotStore
)

const (
	SeverityBlock = chem.SeverityBlock
	SeverityWarn  = chem.SeverityWarn
	SeverityLog   = chem.SeverityLog
)
