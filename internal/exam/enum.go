package exam

type TestStatus string

const (
	TestStatusAssigned   TestStatus = "ASSIGNED"
	TestStatusInProgress TestStatus = "IN_PROGRESS"
	TestStatusCompleted  TestStatus = "COMPLETED"
	TestStatusExpired    TestStatus = "EXPIRED"
	TestStatusTerminated TestStatus = "TERMINATED"
)

// Graded reports whether the test has reached a terminal state and must not
// be graded (again).
func (s TestStatus) Graded() bool {
	return s == TestStatusCompleted || s == TestStatusTerminated
}
