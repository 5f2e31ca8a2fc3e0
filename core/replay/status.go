package replay

// CompareStatus is the lifecycle status of a case's comparison.
type CompareStatus int

const (
	CompareStatusWaitHandling CompareStatus = 0
	CompareStatusPass         CompareStatus = 1
	CompareStatusError        CompareStatus = 2
)

func (s CompareStatus) String() string {
	switch s {
	case CompareStatusWaitHandling:
		return "WAIT_HANDLING"
	case CompareStatusPass:
		return "PASS"
	case CompareStatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SendStatus is the delivery status of a replayed case.
type SendStatus int

const (
	SendStatusWaitHandling         SendStatus = 0
	SendStatusSuccess              SendStatus = 1
	SendStatusExceptionFailed      SendStatus = 2
	SendStatusReplayResultNotFound SendStatus = 3
)

func (s SendStatus) String() string {
	switch s {
	case SendStatusWaitHandling:
		return "WAIT_HANDLING"
	case SendStatusSuccess:
		return "SUCCESS"
	case SendStatusExceptionFailed:
		return "EXCEPTION_FAILED"
	case SendStatusReplayResultNotFound:
		return "REPLAY_RESULT_NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// DiffResultCode is the outcome of one structural diff.
type DiffResultCode int

const (
	DiffNoDifference DiffResultCode = 0
	DiffDifference   DiffResultCode = 1
	DiffError        DiffResultCode = 2
	DiffMissing      DiffResultCode = 3
)

func (c DiffResultCode) String() string {
	switch c {
	case DiffNoDifference:
		return "COMPARED_WITHOUT_DIFFERENCE"
	case DiffDifference:
		return "COMPARED_WITH_DIFFERENCE"
	case DiffError:
		return "COMPARED_INTERNAL_EXCEPTION"
	case DiffMissing:
		return "MISSING_COUNTERPART"
	default:
		return "UNKNOWN"
	}
}

// Well-known category names.
const (
	CategoryDatabase = "Database"
	CategoryServlet  = "Servlet"
	CategoryQMQ      = "QMessageConsumer"
)
